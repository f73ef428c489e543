package graphics

import (
	"fmt"
	"image"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Device defines the accelerated rendering calls the background pipeline needs.
// Implementations are bound to a single context and must only be used from the
// thread that owns it.
type Device interface {
	IsGLES() bool
	CompileShader(stage Stage, source string) (uint32, error)
	LinkProgram(vertex, fragment uint32) (uint32, error)
	DeleteShader(shader uint32)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
	// NewVertexBuffer uploads data once into a static GPU buffer.
	NewVertexBuffer(data []float32) uint32
	// VertexAttribPointer binds a tightly packed float attribute to buffer and
	// enables its array.
	VertexAttribPointer(buffer uint32, location int32, size int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Viewport(width, height int)
	Clear(r, g, b, a float32)
	DrawTriangleStrip(first, count int32)
}

// Canvas is a basic 2D presentation target for frames produced on the CPU.
type Canvas interface {
	Present(img image.Image) error
}

// Surface is a drawable area owned by the host.
type Surface interface {
	// Size returns the current viewport size in pixels.
	Size() (width, height int)
	// Accelerated returns a GPU device bound to the surface, configured for
	// alpha blending and antialiasing.
	Accelerated() (Device, error)
	// Canvas returns a basic 2D drawing target for the surface.
	Canvas() (Canvas, error)
	// OnResize registers a handler called whenever the viewport changes size.
	OnResize(func())
	// OnPointerMove registers a handler receiving absolute pointer positions in
	// pixels, origin at the top-left of the viewport.
	OnPointerMove(func(x, y float64))
	// RequestFrame schedules f to run once before the next presented frame.
	RequestFrame(f func())
}

// Host resolves surfaces by identifier.
type Host interface {
	Surface(id string) (Surface, bool)
}

// CompileError is returned by Device.CompileShader when the host compiler
// rejects a stage.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError is returned by Device.LinkProgram when the stages cannot be linked.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}
