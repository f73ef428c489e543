// Package hosttest provides in-memory implementations of the graphics host
// interfaces for tests. Nothing here touches a GPU or a window system.
package hosttest

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/richinsley/gobackdrop/graphics"
)

// Host maps identifiers to surfaces.
type Host struct {
	Surfaces map[string]*Surface
	Lookups  int
}

// NewHost returns a host exposing surfaces under their ids.
func NewHost(surfaces map[string]*Surface) *Host {
	return &Host{Surfaces: surfaces}
}

func (h *Host) Surface(id string) (graphics.Surface, bool) {
	h.Lookups++
	s, ok := h.Surfaces[id]
	if !ok {
		return nil, false
	}
	return s, true
}

// Surface is a viewport with a single-threaded frame queue. Scheduled
// callbacks run only when the test calls Step.
type Surface struct {
	Width, Height int

	Device    *Device
	DeviceErr error
	Canv      *Canvas
	CanvasErr error

	AcceleratedCalls int
	CanvasCalls      int
	Requests         int

	pending  []func()
	onResize []func()
	onMove   []func(x, y float64)
}

// NewSurface returns a surface of the given size backed by a fresh fake
// device and canvas.
func NewSurface(width, height int) *Surface {
	return &Surface{
		Width:  width,
		Height: height,
		Device: NewDevice(),
		Canv:   &Canvas{},
	}
}

func (s *Surface) Size() (int, int) { return s.Width, s.Height }

func (s *Surface) Accelerated() (graphics.Device, error) {
	s.AcceleratedCalls++
	if s.DeviceErr != nil {
		return nil, s.DeviceErr
	}
	return s.Device, nil
}

func (s *Surface) Canvas() (graphics.Canvas, error) {
	s.CanvasCalls++
	if s.CanvasErr != nil {
		return nil, s.CanvasErr
	}
	return s.Canv, nil
}

func (s *Surface) OnResize(f func()) { s.onResize = append(s.onResize, f) }

func (s *Surface) OnPointerMove(f func(x, y float64)) { s.onMove = append(s.onMove, f) }

func (s *Surface) RequestFrame(f func()) {
	s.Requests++
	s.pending = append(s.pending, f)
}

// Pending returns the number of callbacks waiting for the next frame.
func (s *Surface) Pending() int { return len(s.pending) }

// Step runs the callbacks scheduled for one frame. Callbacks they schedule
// wait for the following Step. It reports whether anything ran.
func (s *Surface) Step() bool {
	if len(s.pending) == 0 {
		return false
	}
	run := s.pending
	s.pending = nil
	for _, f := range run {
		f()
	}
	return true
}

// Resize changes the viewport and dispatches the resize handlers.
func (s *Surface) Resize(width, height int) {
	s.Width, s.Height = width, height
	for _, f := range s.onResize {
		f()
	}
}

// MovePointer dispatches a pointer move in viewport pixels.
func (s *Surface) MovePointer(x, y float64) {
	for _, f := range s.onMove {
		f(x, y)
	}
}

// Canvas records presented frames.
type Canvas struct {
	Presents int
	Last     image.Image
	Err      error
}

func (c *Canvas) Present(img image.Image) error {
	if c.Err != nil {
		return c.Err
	}
	c.Presents++
	c.Last = img
	return nil
}

// FailMarker makes CompileShader reject any source containing it.
const FailMarker = "#error"

// Device is a recording graphics.Device.
type Device struct {
	GLES     bool
	LinkErr  error
	Attribs  map[string]int32
	Uniforms map[string]int32

	Compiled  []graphics.Stage
	Sources   []string
	Programs  int
	Live      map[uint32]bool
	Used      uint32
	Buffers   [][]float32
	Enabled   map[int32]int
	Viewports [][2]int
	Clears    [][4]float32
	Draws     int

	Float1 map[int32][]float32
	Float2 map[int32][][2]float32

	nextID uint32
}

// NewDevice returns a device that resolves the background's names to fixed
// locations.
func NewDevice() *Device {
	return &Device{
		Attribs:  map[string]int32{"position": 0},
		Uniforms: map[string]int32{"u_time": 1, "u_resolution": 2, "u_mouse": 3},
		Enabled:  make(map[int32]int),
		Live:     make(map[uint32]bool),
		Float1:   make(map[int32][]float32),
		Float2:   make(map[int32][][2]float32),
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) IsGLES() bool { return d.GLES }

func (d *Device) CompileShader(stage graphics.Stage, source string) (uint32, error) {
	if strings.Contains(source, FailMarker) {
		return 0, &graphics.CompileError{Stage: stage, Log: "ERROR: 0:1: '#error' : unsupported directive"}
	}
	if strings.TrimSpace(source) == "" {
		return 0, &graphics.CompileError{Stage: stage, Log: "ERROR: empty source"}
	}
	d.Compiled = append(d.Compiled, stage)
	d.Sources = append(d.Sources, source)
	id := d.id()
	d.Live[id] = true
	return id, nil
}

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, error) {
	if vertex == 0 || fragment == 0 {
		return 0, &graphics.LinkError{Log: "missing stage"}
	}
	if d.LinkErr != nil {
		var le *graphics.LinkError
		if errors.As(d.LinkErr, &le) {
			return 0, le
		}
		return 0, &graphics.LinkError{Log: d.LinkErr.Error()}
	}
	d.Programs++
	id := d.id()
	d.Live[id] = true
	return id, nil
}

func (d *Device) DeleteShader(shader uint32) { delete(d.Live, shader) }

func (d *Device) DeleteProgram(program uint32) { delete(d.Live, program) }

func (d *Device) UseProgram(program uint32) { d.Used = program }

func (d *Device) AttribLocation(_ uint32, name string) int32 {
	if loc, ok := d.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) UniformLocation(_ uint32, name string) int32 {
	if loc, ok := d.Uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) NewVertexBuffer(data []float32) uint32 {
	d.Buffers = append(d.Buffers, append([]float32(nil), data...))
	return d.id()
}

func (d *Device) VertexAttribPointer(_ uint32, location int32, size int32) {
	if size != 2 {
		panic(fmt.Sprintf("hosttest: attribute size %d, want 2", size))
	}
	d.Enabled[location]++
}

func (d *Device) Uniform1f(location int32, v float32) {
	d.Float1[location] = append(d.Float1[location], v)
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	d.Float2[location] = append(d.Float2[location], [2]float32{x, y})
}

func (d *Device) Viewport(width, height int) {
	d.Viewports = append(d.Viewports, [2]int{width, height})
}

func (d *Device) Clear(r, g, b, a float32) {
	d.Clears = append(d.Clears, [4]float32{r, g, b, a})
}

func (d *Device) DrawTriangleStrip(first, count int32) {
	if first != 0 || count != 4 {
		panic(fmt.Sprintf("hosttest: draw(%d, %d), want (0, 4)", first, count))
	}
	d.Draws++
}
