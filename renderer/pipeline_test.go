package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/richinsley/gobackdrop/graphics"
	"github.com/richinsley/gobackdrop/internal/hosttest"
	"github.com/richinsley/gobackdrop/shader"
)

type fakeTranslator struct {
	names  map[string]string
	err    error
	calls  int
	gles   bool
	source string
}

func (f *fakeTranslator) TranslateFragment(source string, gles bool) (string, map[string]string, error) {
	f.calls++
	f.gles = gles
	f.source = source
	if f.err != nil {
		return "", nil, f.err
	}
	return "#version 410 core\n" + source, f.names, nil
}

func TestBuildPipeline(t *testing.T) {
	dev := hosttest.NewDevice()
	p, err := BuildPipeline(dev, Sources{
		Vertex:   shader.GenerateVertexShader(false),
		Fragment: shader.BackgroundFragmentShader(),
	})
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if p.PositionLoc != 0 || p.TimeLoc != 1 || p.ResolutionLoc != 2 || p.MouseLoc != 3 {
		t.Errorf("locations = %d/%d/%d/%d, want 0/1/2/3", p.PositionLoc, p.TimeLoc, p.ResolutionLoc, p.MouseLoc)
	}
	if dev.Used != p.Program {
		t.Errorf("program %d not in use (used %d)", p.Program, dev.Used)
	}
	if len(dev.Buffers) != 1 {
		t.Fatalf("uploaded %d buffers, want 1", len(dev.Buffers))
	}
	want := []float32{-1, -1, 1, -1, -1, 1, 1, 1}
	for i, v := range want {
		if dev.Buffers[0][i] != v {
			t.Errorf("quad[%d] = %v, want %v", i, dev.Buffers[0][i], v)
		}
	}
	if dev.Enabled[0] != 1 {
		t.Errorf("position enabled %d times, want 1", dev.Enabled[0])
	}
	if len(dev.Live) != 1 || !dev.Live[p.Program] {
		t.Errorf("live objects = %v, want only program %d", dev.Live, p.Program)
	}
}

func TestBuildPipelineFailures(t *testing.T) {
	tests := []struct {
		name      string
		src       Sources
		setup     func(*hosttest.Device)
		wantStage graphics.Stage
		wantLink  bool
	}{
		{
			name:      "vertex rejected",
			src:       Sources{Vertex: "#error", Fragment: shader.BackgroundFragmentShader()},
			wantStage: graphics.VertexStage,
		},
		{
			name:      "fragment rejected",
			src:       Sources{Vertex: shader.GenerateVertexShader(false), Fragment: "#error"},
			wantStage: graphics.FragmentStage,
		},
		{
			name:     "link rejected",
			src:      Sources{Vertex: shader.GenerateVertexShader(false), Fragment: shader.BackgroundFragmentShader()},
			setup:    func(d *hosttest.Device) { d.LinkErr = errors.New("varying mismatch") },
			wantLink: true,
		},
		{
			name:     "position attribute missing",
			src:      Sources{Vertex: shader.GenerateVertexShader(false), Fragment: shader.BackgroundFragmentShader()},
			setup:    func(d *hosttest.Device) { delete(d.Attribs, shader.PositionAttrib) },
			wantLink: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := hosttest.NewDevice()
			if tt.setup != nil {
				tt.setup(dev)
			}
			p, err := BuildPipeline(dev, tt.src)
			if p != nil {
				t.Errorf("got pipeline %+v, want nil", p)
			}
			if len(dev.Live) != 0 {
				t.Errorf("objects left alive after failure: %v", dev.Live)
			}
			if tt.wantLink {
				var le *LinkError
				if !errors.As(err, &le) {
					t.Fatalf("err = %v, want *LinkError", err)
				}
				return
			}
			var ce *StageCompileError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *StageCompileError", err)
			}
			if ce.Stage != tt.wantStage {
				t.Errorf("stage = %v, want %v", ce.Stage, tt.wantStage)
			}
			if ce.Log == "" {
				t.Error("compile error carries no log")
			}
			if len(dev.Buffers) != 0 {
				t.Errorf("uploaded %d buffers after a failure", len(dev.Buffers))
			}
		})
	}
}

func TestPrepareSourcesTranslates(t *testing.T) {
	dev := hosttest.NewDevice()
	dev.GLES = true
	tr := &fakeTranslator{names: map[string]string{
		shader.TimeUniform:       "_uu_time",
		shader.ResolutionUniform: "_uu_resolution",
	}}
	src, err := prepareSources(dev, newConfig([]Option{WithTranslator(tr)}))
	if err != nil {
		t.Fatalf("prepareSources: %v", err)
	}
	if tr.calls != 1 || !tr.gles {
		t.Errorf("translator calls = %d gles = %v, want 1 true", tr.calls, tr.gles)
	}
	if !strings.HasPrefix(src.Fragment, "#version 410 core\n") {
		t.Errorf("fragment not replaced by translation")
	}
	if src.Vertex != shader.GenerateVertexShader(true) {
		t.Errorf("vertex source is not the ES stage")
	}
	if tr.source != shader.BackgroundFragmentShader() {
		t.Errorf("translator input is not the WebGL2 fragment source")
	}

	dev.Uniforms = map[string]int32{"_uu_time": 7, "_uu_resolution": 8, shader.MouseUniform: 9}
	p, err := BuildPipeline(dev, src)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if p.TimeLoc != 7 || p.ResolutionLoc != 8 {
		t.Errorf("mapped locations = %d/%d, want 7/8", p.TimeLoc, p.ResolutionLoc)
	}
	if p.MouseLoc != -1 {
		t.Errorf("MouseLoc = %d, want -1 for a uniform the translator dropped", p.MouseLoc)
	}
}

func TestPrepareSourcesTranslationError(t *testing.T) {
	tr := &fakeTranslator{err: errors.New("'snoise' : no matching overloaded function")}
	_, err := prepareSources(hosttest.NewDevice(), newConfig([]Option{WithTranslator(tr)}))
	var ce *StageCompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *StageCompileError", err)
	}
	if ce.Stage != graphics.FragmentStage || !strings.Contains(ce.Log, "snoise") {
		t.Errorf("got %v", ce)
	}
}

func TestPrepareSourcesUntranslated(t *testing.T) {
	tests := []struct {
		name       string
		gles       bool
		wantHeader string
	}{
		{name: "desktop", gles: false, wantHeader: "#version 410 core\n"},
		{name: "es", gles: true, wantHeader: "#version 300 es\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := hosttest.NewDevice()
			dev.GLES = tt.gles
			src, err := prepareSources(dev, newConfig(nil))
			if err != nil {
				t.Fatalf("prepareSources: %v", err)
			}
			if !strings.HasPrefix(src.Fragment, tt.wantHeader) {
				t.Errorf("fragment header = %q, want prefix %q", firstLine(src.Fragment), tt.wantHeader)
			}
			if _, err := BuildPipeline(dev, src); err != nil {
				t.Fatalf("BuildPipeline: %v", err)
			}
			if len(dev.Sources) != 2 || dev.Sources[1] != src.Fragment {
				t.Errorf("device did not compile the generated fragment source")
			}
		})
	}
}

func TestPrepareSourcesKeepsExplicitFragment(t *testing.T) {
	const custom = "#version 410 core\nout vec4 fragColor;\nvoid main() { fragColor = vec4(1.0); }\n"
	src, err := prepareSources(hosttest.NewDevice(), newConfig([]Option{WithSources("", custom)}))
	if err != nil {
		t.Fatalf("prepareSources: %v", err)
	}
	if src.Fragment != custom {
		t.Errorf("explicit fragment replaced")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
