package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the process wide translator, starting it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})

	if initErr != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", initErr)
	}

	return translator, nil
}

type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
)

// Shader is a translated stage. Names maps the uniform names of the WebGL2
// source to the names in Code.
type Shader struct {
	Code  string
	Names map[string]string
}

// Translate converts WebGL2 GLSL to GLSL 410, or ESSL 300 when gles is set.
func Translate(source string, stage Stage, gles bool) (*Shader, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, err
	}

	outputFormat := gst.OutputFormatGLSL410
	if gles {
		outputFormat = gst.OutputFormatESSL
	}

	translated, err := t.TranslateShader(source, string(stage), gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}

	names := make(map[string]string, len(translated.Variables))
	for name, v := range translated.Variables {
		names[name] = v.MappedName
	}

	return &Shader{Code: translated.Code, Names: names}, nil
}
