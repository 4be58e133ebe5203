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

// GetTranslator returns the shared shader translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Shader is a WebGL2 shader rewritten as desktop GLSL 330.
type Shader struct {
	Code      string
	variables map[string]gst.ShaderVariable
}

// MappedName returns the name the translator gave to a variable of the
// original source. Names it did not report are returned unchanged.
func (s *Shader) MappedName(name string) string {
	if v, ok := s.variables[name]; ok && v.MappedName != "" {
		return v.MappedName
	}
	return name
}

// Translate converts a WebGL2 shader of the given stage ("vertex" or "fragment").
func Translate(source, stage string) (*Shader, error) {
	switch stage {
	case "vertex", "fragment":
	default:
		return nil, fmt.Errorf("unknown shader stage %q", stage)
	}
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	out, err := t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL330)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	return &Shader{Code: out.Code, variables: out.Variables}, nil
}
