package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/richinsley/gobackdrop/encoder"
	"github.com/richinsley/gobackdrop/glfwcontext"
	"github.com/richinsley/gobackdrop/headless"
	"github.com/richinsley/gobackdrop/offscreen"
	"github.com/richinsley/gobackdrop/options"
	"github.com/richinsley/gobackdrop/renderer"
	"github.com/richinsley/gobackdrop/translator"
)

const defaultSurface = "webgl-bg"

func init() {
	runtime.LockOSThread()
}

func rendererOptions(opts *options.BackgroundOptions) []renderer.Option {
	var ropts []renderer.Option
	if *opts.Translate {
		ropts = append(ropts, renderer.WithTranslator(translator.ANGLE{}))
	}
	return ropts
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	renderer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

func runWindow(opts *options.BackgroundOptions) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(glfwcontext.WindowOptions{
		Title:              "gobackdrop",
		Width:              *opts.Width,
		Height:             *opts.Height,
		Visible:            true,
		Samples:            *opts.Samples,
		DisableAccelerated: *opts.NoAccel,
	})
	if err != nil {
		return err
	}
	defer win.Shutdown()

	host := glfwcontext.Host{*opts.SurfaceID: win}
	bg, err := renderer.Start(host, *opts.SurfaceID, rendererOptions(opts)...)
	if err != nil {
		return err
	}
	log.Printf("Background running in %s mode", bg.Mode())
	win.Run()
	return nil
}

// headlessAccelerator creates the EGL context lazily, the first time the
// renderer asks for an accelerated device. shutdown releases it.
func headlessAccelerator(samples int) (accel offscreen.AcceleratorFunc, shutdown func()) {
	var egl *headless.Context
	accel = func(width, height int) (offscreen.Accelerator, error) {
		ctx, err := headless.NewContext(width, height, samples)
		if err != nil {
			return nil, err
		}
		dev, err := ctx.GLDevice()
		if err != nil {
			ctx.Shutdown()
			return nil, err
		}
		egl = ctx
		return dev, nil
	}
	shutdown = func() {
		if egl != nil {
			egl.Shutdown()
		}
	}
	return accel, shutdown
}

func runRecord(ctx context.Context, opts *options.BackgroundOptions) error {
	var accel offscreen.AcceleratorFunc
	if !*opts.NoAccel {
		var shutdown func()
		accel, shutdown = headlessAccelerator(*opts.Samples)
		defer shutdown()
	}
	host := offscreen.New(*opts.SurfaceID, *opts.Width, *opts.Height, accel)
	bg, err := renderer.Start(host, *opts.SurfaceID, rendererOptions(opts)...)
	if err != nil {
		return err
	}
	log.Printf("Recording in %s mode", bg.Mode())

	surface := host.Offscreen()
	x, y, ok, err := opts.PointerPos()
	if err != nil {
		return err
	}
	if ok {
		surface.MovePointer(x, y)
	}

	out := opts.OutputPath()
	err = encoder.Record(ctx, surface, encoder.Config{
		Width:      *opts.Width,
		Height:     *opts.Height,
		FPS:        *opts.FPS,
		Frames:     opts.Frames(),
		OutputFile: out,
		FFMPEGPath: *opts.FFMPEGPath,
		Codec:      *opts.Codec,
	})
	if err != nil {
		return err
	}
	log.Printf("Successfully rendered to %s", out)
	return nil
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Procedural background viewer/recorder")
		flag.PrintDefaults()
		return
	}

	opts.ResolveSurface(os.Getenv, defaultSurface)
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if err := setupLogging(*opts.LogLevel); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch *opts.Mode {
	case options.ModeRecord:
		err = runRecord(ctx, opts)
	case options.ModeSnapshot:
		err = runSnapshot(ctx, opts)
	default:
		err = runWindow(opts)
	}
	if err != nil {
		log.Fatalf("%s mode failed: %v", *opts.Mode, err)
	}
}
