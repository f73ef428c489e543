// Package translator rewrites WebGL2 fragment stages for the local GL
// flavour using the ANGLE based goshadertranslator.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// ANGLE translates WebGL2 fragment stages to GLSL 4.10, or to ESSL when the
// device is an ES context.
type ANGLE struct{}

// TranslateFragment returns the translated source and the name each declared
// variable was given in it.
func (ANGLE) TranslateFragment(source string, gles bool) (string, map[string]string, error) {
	tr, err := GetTranslator()
	if err != nil {
		return "", nil, fmt.Errorf("failed to create shader translator: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if gles {
		outputFormat = gst.OutputFormatESSL
	}
	fsShader, err := tr.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return "", nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	names := make(map[string]string, len(fsShader.Variables))
	for name, v := range fsShader.Variables {
		names[name] = v.MappedName
	}
	return fsShader.Code, names, nil
}
