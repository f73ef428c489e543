package gldevice

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"

	"github.com/richinsley/gobackdrop/graphics"
)

const canvasVertexBody = `
in vec2 position;
in vec2 texCoord;
out vec2 uv;
void main() {
    uv = texCoord;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const canvasFragmentBody = `
in vec2 uv;
uniform sampler2D frame;
out vec4 fragColor;
void main() {
    fragColor = texture(frame, uv);
}
`

// canvasSources returns the stages of the textured quad program.
func canvasSources(gles bool) (vertex, fragment string) {
	if gles {
		return "#version 300 es\n" + canvasVertexBody,
			"#version 300 es\nprecision mediump float;\n" + canvasFragmentBody
	}
	return "#version 410 core\n" + canvasVertexBody, "#version 410 core\n" + canvasFragmentBody
}

// canvasQuad is a fullscreen triangle strip, interleaved x, y, u, v. Image
// rows are top-down, so the top edge samples v = 0.
var canvasQuad = []float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	-1, 1, 0, 0,
	1, 1, 1, 0,
}

const canvasStride = 4 * 4

// Canvas presents CPU-rendered frames on the default framebuffer of the
// current context by drawing them as a textured fullscreen quad. This works
// on single and multisampled framebuffers alike.
type Canvas struct {
	size func() (int, int)

	program  uint32
	vao      uint32
	vbo      uint32
	texture  uint32
	frameLoc int32
	texW     int
	texH     int
	staging  *image.RGBA
}

// NewCanvas returns a canvas drawing over a framebuffer whose current size
// is reported by size.
func NewCanvas(size func() (int, int), gles bool) (*Canvas, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	c := &Canvas{size: size}
	if err := c.buildProgram(gles); err != nil {
		return nil, err
	}

	posLoc := gl.GetAttribLocation(c.program, gl.Str("position\x00"))
	uvLoc := gl.GetAttribLocation(c.program, gl.Str("texCoord\x00"))
	c.frameLoc = gl.GetUniformLocation(c.program, gl.Str("frame\x00"))
	if posLoc < 0 || uvLoc < 0 || c.frameLoc < 0 {
		c.Destroy()
		return nil, errors.New("gldevice: canvas program is missing a binding")
	}

	gl.GenVertexArrays(1, &c.vao)
	gl.GenBuffers(1, &c.vbo)
	gl.GenTextures(1, &c.texture)
	if c.vao == 0 || c.vbo == 0 || c.texture == 0 {
		c.Destroy()
		return nil, errors.New("gldevice: failed to allocate canvas objects")
	}

	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(canvasQuad)*4, gl.Ptr(canvasQuad), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(uint32(posLoc))
	gl.VertexAttribPointer(uint32(posLoc), 2, gl.FLOAT, false, canvasStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(uint32(uvLoc))
	gl.VertexAttribPointer(uint32(uvLoc), 2, gl.FLOAT, false, canvasStride, gl.PtrOffset(2*4))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if err := glError("canvas setup", gl.GetError()); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func (c *Canvas) buildProgram(gles bool) error {
	d := &Device{gles: gles}
	vs, fs := canvasSources(gles)
	vertex, err := d.CompileShader(graphics.VertexStage, vs)
	if err != nil {
		return fmt.Errorf("gldevice: canvas: %w", err)
	}
	defer gl.DeleteShader(vertex)
	fragment, err := d.CompileShader(graphics.FragmentStage, fs)
	if err != nil {
		return fmt.Errorf("gldevice: canvas: %w", err)
	}
	defer gl.DeleteShader(fragment)

	c.program, err = d.LinkProgram(vertex, fragment)
	if err != nil {
		return fmt.Errorf("gldevice: canvas: %w", err)
	}
	return nil
}

func (c *Canvas) Present(img image.Image) error {
	src := c.rgba(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	drainGLErrors()

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, c.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(src.Stride/4))
	if w != c.texW || h != c.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(src.Pix))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		c.texW, c.texH = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(src.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	dw, dh := c.size()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(dw), int32(dh))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(c.program)
	gl.Uniform1i(c.frameLoc, 0)
	gl.BindVertexArray(c.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return glError("present", gl.GetError())
}

// rgba returns img as an *image.RGBA with its origin at (0, 0), converting
// into a reused staging image when needed.
func (c *Canvas) rgba(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	b := img.Bounds()
	if c.staging == nil || c.staging.Bounds().Size() != b.Size() {
		c.staging = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Copy(c.staging, image.Point{}, img, b, draw.Src, nil)
	return c.staging
}

// Destroy releases the GL objects owned by the canvas.
func (c *Canvas) Destroy() {
	if c.texture != 0 {
		gl.DeleteTextures(1, &c.texture)
	}
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
	}
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
	}
	if c.program != 0 {
		gl.DeleteProgram(c.program)
	}
	*c = Canvas{size: c.size}
}

// drainGLErrors clears error flags left by earlier calls so a failure is
// reported by the call that caused it.
func drainGLErrors() {
	for i := 0; i < 8; i++ {
		if gl.GetError() == gl.NO_ERROR {
			return
		}
	}
}

var glErrorNames = map[uint32]string{
	gl.INVALID_ENUM:                  "GL_INVALID_ENUM",
	gl.INVALID_VALUE:                 "GL_INVALID_VALUE",
	gl.INVALID_OPERATION:             "GL_INVALID_OPERATION",
	gl.INVALID_FRAMEBUFFER_OPERATION: "GL_INVALID_FRAMEBUFFER_OPERATION",
	gl.OUT_OF_MEMORY:                 "GL_OUT_OF_MEMORY",
}

// glError turns a glGetError code into an error, nil for GL_NO_ERROR.
func glError(op string, code uint32) error {
	if code == gl.NO_ERROR {
		return nil
	}
	name, ok := glErrorNames[code]
	if !ok {
		name = fmt.Sprintf("0x%04X", code)
	}
	return fmt.Errorf("gldevice: %s: %s", op, name)
}
