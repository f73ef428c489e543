package options

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// SurfaceEnv overrides the default surface id when --surface is not given.
const SurfaceEnv = "GOBACKDROP_SURFACE"

// Supported values of Mode.
const (
	ModeWindow   = "window"
	ModeRecord   = "record"
	ModeSnapshot = "snapshot"
)

type BackgroundOptions struct {
	SurfaceID  *string
	Help       *bool
	Mode       *string
	Duration   *float64
	FPS        *int
	Width      *int
	Height     *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	Pointer    *string // Scripted pointer position "x,y" in pixels for record and snapshot modes.
	Scale      *float64
	NoAccel    *bool
	Samples    *int
	Translate  *bool
	LogLevel   *string
}

// Register defines the flags on fs and returns the options they populate.
func Register(fs *flag.FlagSet) *BackgroundOptions {
	return &BackgroundOptions{
		SurfaceID:  fs.String("surface", "", "Surface id to render into (from "+SurfaceEnv+" env var if not set)"),
		Help:       fs.Bool("help", false, "Show help message"),
		Mode:       fs.String("mode", ModeWindow, "Run mode: window, record or snapshot"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		Width:      fs.Int("width", 1280, "Width of the output"),
		Height:     fs.Int("height", 720, "Height of the output"),
		OutputFile: fs.String("output", "", "Output file name (defaults to backdrop.mp4 or backdrop.png)"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		Pointer:    fs.String("pointer", "", "Pointer position x,y in pixels for record and snapshot modes"),
		Scale:      fs.Float64("scale", 0.5, "Render scale for snapshot mode, upscaled to the output size"),
		NoAccel:    fs.Bool("no-accel", false, "Skip the accelerated pipeline and draw the gradient fallback"),
		Samples:    fs.Int("samples", 4, "Multisample count for the accelerated context"),
		Translate:  fs.Bool("translate", true, "Translate the fragment stage with ANGLE before compiling"),
		LogLevel:   fs.String("log-level", "info", "Renderer log level: debug, info, warn or error"),
	}
}

// ResolveSurface fills SurfaceID from env when the flag was left empty and
// falls back to def.
func (o *BackgroundOptions) ResolveSurface(getenv func(string) string, def string) {
	if *o.SurfaceID != "" {
		return
	}
	if v := getenv(SurfaceEnv); v != "" {
		*o.SurfaceID = v
		return
	}
	*o.SurfaceID = def
}

// OutputPath returns OutputFile or the default for the mode.
func (o *BackgroundOptions) OutputPath() string {
	if *o.OutputFile != "" {
		return *o.OutputFile
	}
	if *o.Mode == ModeSnapshot {
		return "backdrop.png"
	}
	return "backdrop.mp4"
}

// Frames returns the number of frames to record.
func (o *BackgroundOptions) Frames() int {
	return int(*o.Duration * float64(*o.FPS))
}

// PointerPos parses Pointer. ok is false when no pointer was given.
func (o *BackgroundOptions) PointerPos() (x, y float64, ok bool, err error) {
	if strings.TrimSpace(*o.Pointer) == "" {
		return 0, 0, false, nil
	}
	parts := strings.Split(*o.Pointer, ",")
	if len(parts) != 2 {
		return 0, 0, false, fmt.Errorf("invalid pointer %q: want x,y", *o.Pointer)
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid pointer x: %w", err)
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid pointer y: %w", err)
	}
	return x, y, true, nil
}

// Validate checks the combination of options.
func (o *BackgroundOptions) Validate() error {
	var errs []error
	switch *o.Mode {
	case ModeWindow, ModeRecord, ModeSnapshot:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", *o.Mode))
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height))
	}
	if *o.Mode == ModeRecord {
		if *o.FPS <= 0 {
			errs = append(errs, fmt.Errorf("invalid fps %d", *o.FPS))
		}
		if *o.Duration <= 0 {
			errs = append(errs, fmt.Errorf("invalid duration %v", *o.Duration))
		}
		if *o.Codec != "h264" && *o.Codec != "hevc" {
			errs = append(errs, fmt.Errorf("unknown codec %q", *o.Codec))
		}
	}
	if *o.Mode == ModeSnapshot && (*o.Scale <= 0 || *o.Scale > 1) {
		errs = append(errs, fmt.Errorf("scale %v out of range (0, 1]", *o.Scale))
	}
	if *o.Samples < 0 {
		errs = append(errs, fmt.Errorf("invalid sample count %d", *o.Samples))
	}
	if _, _, _, err := o.PointerPos(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
