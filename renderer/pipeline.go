package renderer

import (
	"fmt"

	"github.com/richinsley/gobackdrop/graphics"
	"github.com/richinsley/gobackdrop/shader"
)

// quadVertices covers the whole surface in normalized device coordinates,
// ordered for a triangle strip.
var quadVertices = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}

// Translator rewrites the fragment stage for the target device and reports
// how each declared name was mapped in the output.
type Translator interface {
	TranslateFragment(source string, gles bool) (code string, names map[string]string, err error)
}

// Sources is the program text handed to the device.
type Sources struct {
	Vertex   string
	Fragment string
	// Names maps uniform names in the untranslated fragment source to the names
	// in Fragment. Nil means the names are unchanged.
	Names map[string]string
}

// mapped returns the name to query for uniform, or "" when the translator
// dropped it.
func (s Sources) mapped(uniform string) string {
	if s.Names == nil {
		return uniform
	}
	return s.Names[uniform]
}

// Pipeline is a linked background program with its resolved bindings.
// It is never rebuilt once constructed.
type Pipeline struct {
	Program       uint32
	Quad          uint32
	PositionLoc   int32
	TimeLoc       int32
	ResolutionLoc int32
	MouseLoc      int32
}

// prepareSources picks the stage sources for dev, translating the fragment
// stage when a translator is configured.
func prepareSources(dev graphics.Device, cfg *config) (Sources, error) {
	src := Sources{
		Vertex:   cfg.vertexSource,
		Fragment: cfg.fragmentSource,
	}
	if src.Vertex == "" {
		src.Vertex = shader.GenerateVertexShader(dev.IsGLES())
	}
	if cfg.translator == nil {
		if src.Fragment == "" {
			src.Fragment = shader.GenerateFragmentShader(dev.IsGLES())
		}
		return src, nil
	}
	if src.Fragment == "" {
		src.Fragment = shader.BackgroundFragmentShader()
	}

	code, names, err := cfg.translator.TranslateFragment(src.Fragment, dev.IsGLES())
	if err != nil {
		return Sources{}, &StageCompileError{Stage: graphics.FragmentStage, Log: err.Error()}
	}
	src.Fragment = code
	src.Names = names
	return src, nil
}

// BuildPipeline compiles and links the two stages, uploads the quad and
// resolves every binding. Any failure aborts the whole construction.
func BuildPipeline(dev graphics.Device, src Sources) (*Pipeline, error) {
	program, err := newProgram(dev, src.Vertex, src.Fragment)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{Program: program}
	p.PositionLoc = dev.AttribLocation(program, shader.PositionAttrib)
	if p.PositionLoc < 0 {
		dev.DeleteProgram(program)
		return nil, &LinkError{Log: fmt.Sprintf("vertex attribute %q is not active", shader.PositionAttrib)}
	}
	dev.UseProgram(program)
	p.TimeLoc = getUniformLocation(dev, src, program, shader.TimeUniform)
	p.ResolutionLoc = getUniformLocation(dev, src, program, shader.ResolutionUniform)
	p.MouseLoc = getUniformLocation(dev, src, program, shader.MouseUniform)

	p.Quad = dev.NewVertexBuffer(quadVertices)
	dev.VertexAttribPointer(p.Quad, p.PositionLoc, 2)
	return p, nil
}

func getUniformLocation(dev graphics.Device, src Sources, program uint32, name string) int32 {
	mapped := src.mapped(name)
	if mapped == "" {
		return -1
	}
	return dev.UniformLocation(program, mapped)
}

// newProgram compiles and links the stages. The shader objects are released
// whatever the outcome; a linked program keeps what it needs.
func newProgram(dev graphics.Device, vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := dev.CompileShader(graphics.VertexStage, vertexShaderSource)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(vertexShader)

	fragmentShader, err := dev.CompileShader(graphics.FragmentStage, fragmentShaderSource)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(fragmentShader)

	return dev.LinkProgram(vertexShader, fragmentShader)
}
