package shader

import (
	"strings"
	"testing"

	"github.com/richinsley/gobloom/graphics"
)

func TestSources(t *testing.T) {
	tests := []struct {
		name      string
		src       graphics.ProgramSource
		translate bool
		version   string
		uniforms  []string
	}{
		{"blur", Blur(), true, "#version 300 es", []string{UniformBlurTexture, UniformRadius}},
		{"composite", Composite(), true, "#version 300 es", []string{UniformMainTexture, UniformBrightTexture}},
		{"geometry gl", Geometry(graphics.DialectGLSL410), false, "#version 410 core", []string{UniformTransform}},
		{"geometry gles", Geometry(graphics.DialectESSL300), false, "#version 300 es", []string{UniformTransform}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.src.Translate != tc.translate {
				t.Errorf("Translate = %v, want %v", tc.src.Translate, tc.translate)
			}

			for _, stage := range []string{tc.src.Vertex, tc.src.Fragment} {
				if !strings.HasPrefix(stage, tc.version) {
					t.Errorf("stage does not start with %q", tc.version)
				}
			}

			all := tc.src.Vertex + tc.src.Fragment
			for _, name := range tc.uniforms {
				if !strings.Contains(all, " "+name+";") {
					t.Errorf("uniform %q not declared", name)
				}
			}
		})
	}
}

func TestGeometryOutputs(t *testing.T) {
	for _, dialect := range []graphics.Dialect{graphics.DialectGLSL410, graphics.DialectESSL300} {
		fs := Geometry(dialect).Fragment

		for _, out := range []string{"layout (location = 0) out vec4 main_color", "layout (location = 1) out vec4 bright_color"} {
			if !strings.Contains(fs, out) {
				t.Errorf("dialect %d: missing %q", dialect, out)
			}
		}
	}
}
