package renderer

import "github.com/richinsley/gobackdrop/graphics"

// driver is the accelerated animation loop. All of its methods run on the
// thread that owns the surface.
type driver struct {
	surface  graphics.Surface
	dev      graphics.Device
	pipeline *Pipeline

	state RenderState
	dims  Dimensions
}

// newDriver reads the viewport, draws the first frame synchronously and then
// subscribes to the surface's interrupts.
func newDriver(surface graphics.Surface, dev graphics.Device, p *Pipeline) *driver {
	d := &driver{
		surface:  surface,
		dev:      dev,
		pipeline: p,
		state:    NewRenderState(),
	}
	d.resize()
	d.tick()
	surface.OnResize(d.resize)
	surface.OnPointerMove(d.pointerMove)
	return d
}

func (d *driver) resize() {
	w, h := d.surface.Size()
	d.dims = Dimensions{Width: w, Height: h}
	d.dev.Viewport(w, h)
}

func (d *driver) pointerMove(x, y float64) {
	d.state.SetTarget(x, y, d.dims)
}

func (d *driver) tick() {
	p := d.pipeline
	if p == nil || p.Program == 0 {
		return
	}
	d.state.Advance()

	if p.TimeLoc >= 0 {
		d.dev.Uniform1f(p.TimeLoc, float32(d.state.Time))
	}
	if p.ResolutionLoc >= 0 {
		d.dev.Uniform2f(p.ResolutionLoc, float32(d.dims.Width), float32(d.dims.Height))
	}
	if p.MouseLoc >= 0 {
		d.dev.Uniform2f(p.MouseLoc, float32(d.state.Pointer[0]), float32(d.state.Pointer[1]))
	}

	d.dev.Clear(0, 0, 0, 0)
	d.dev.DrawTriangleStrip(0, 4)
	d.surface.RequestFrame(d.tick)
}
