// Package glfwcontext hosts backgrounds in GLFW windows.
package glfwcontext

import (
	"errors"
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/gobackdrop/gldevice"
	"github.com/richinsley/gobackdrop/graphics"
)

// WindowOptions configures a background window.
type WindowOptions struct {
	Title   string
	Width   int
	Height  int
	Visible bool
	// Samples is the multisample count requested for the accelerated context.
	Samples int
	// DisableAccelerated skips the GL 4.1 context and opens the window for
	// the 2D canvas directly.
	DisableAccelerated bool
}

// Context is a GLFW window exposed as a graphics.Surface. Frame callbacks,
// resize and pointer events are all delivered on the thread running Run.
type Context struct {
	window   *glfw.Window
	accelErr error

	device *gldevice.Device
	canvas *gldevice.Canvas

	pending  []func()
	onResize []func()
	onMove   []func(x, y float64)
}

// New creates a window. It asks for a GL 4.1 core context with a transparent,
// multisampled framebuffer and falls back to a plain GL 3.2 core context,
// which only supports the 2D canvas.
func New(opts WindowOptions) (*Context, error) {
	c := &Context{}
	var err error
	if opts.DisableAccelerated {
		c.accelErr = errors.New("accelerated rendering disabled")
	} else {
		c.window, err = createWindow(opts, 4, 1, opts.Samples)
		if err != nil {
			c.accelErr = err
			log.Printf("GL 4.1 window unavailable: %v", err)
		}
	}
	if c.window == nil {
		c.window, err = createWindow(opts, 3, 2, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to create window: %w", err)
		}
	}
	c.window.MakeContextCurrent()
	glfw.SwapInterval(1)

	c.window.SetKeyCallback(c.glfwKeyCallback)
	c.window.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	c.window.SetCursorPosCallback(c.glfwCursorPosCallback)
	return c, nil
}

func createWindow(opts WindowOptions, major, minor, samples int) (*glfw.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, major)
	glfw.WindowHint(glfw.ContextVersionMinor, minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)
	glfw.WindowHint(glfw.AlphaBits, 8)
	if samples > 0 {
		glfw.WindowHint(glfw.Samples, samples)
	}
	if opts.Visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}
	return glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

func (c *Context) glfwFramebufferSizeCallback(_ *glfw.Window, width, height int) {
	for _, f := range c.onResize {
		f()
	}
}

// glfwCursorPosCallback converts window coordinates to framebuffer pixels so
// they match Size on high density displays.
func (c *Context) glfwCursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	var scaleX, scaleY float64 = 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}
	for _, f := range c.onMove {
		f(xpos*scaleX, ypos*scaleY)
	}
}

func (c *Context) Size() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Accelerated() (graphics.Device, error) {
	if c.accelErr != nil {
		return nil, c.accelErr
	}
	if c.device == nil {
		c.window.MakeContextCurrent()
		dev, err := gldevice.New(false)
		if err != nil {
			c.accelErr = err
			return nil, err
		}
		log.Printf("OpenGL version: %s", dev.Version())
		c.device = dev
	}
	return c.device, nil
}

func (c *Context) Canvas() (graphics.Canvas, error) {
	if c.canvas == nil {
		c.window.MakeContextCurrent()
		canvas, err := gldevice.NewCanvas(c.Size, false)
		if err != nil {
			return nil, err
		}
		c.canvas = canvas
	}
	return c.canvas, nil
}

func (c *Context) OnResize(f func()) { c.onResize = append(c.onResize, f) }

func (c *Context) OnPointerMove(f func(x, y float64)) { c.onMove = append(c.onMove, f) }

func (c *Context) RequestFrame(f func()) { c.pending = append(c.pending, f) }

// Run drives the window until it is closed: each iteration runs the frame
// callbacks scheduled so far, presents and then dispatches events.
func (c *Context) Run() {
	c.window.MakeContextCurrent()
	for !c.window.ShouldClose() {
		run := c.pending
		c.pending = nil
		for _, f := range run {
			f()
		}
		c.EndFrame()
	}
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	if c.canvas != nil {
		c.canvas.Destroy()
	}
	c.window.Destroy()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

// Host resolves surface ids to windows.
type Host map[string]*Context

func (h Host) Surface(id string) (graphics.Surface, bool) {
	c, ok := h[id]
	if !ok || c == nil {
		return nil, false
	}
	return c, true
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
