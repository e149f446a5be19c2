package gldevice

import (
	"fmt"
	"runtime"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gopxl/mainthread/v2"
	"github.com/richinsley/gobloom/graphics"
	"github.com/richinsley/gobloom/translator"
)

type program struct {
	label string
	id    uint32

	// names maps source uniform names to the names the translator emitted.
	names map[string]string

	dev     *Device
	cleanup runtime.Cleanup
}

func deleteProgram(id uint32) {
	mainthread.CallNonBlock(func() {
		gl.DeleteProgram(id)
	})
}

func (p *program) Label() string { return p.label }

func (p *program) Release() {
	if p.id == 0 {
		return
	}

	p.cleanup.Stop()
	p.dev.forgetLocations(p.id)
	gl.DeleteProgram(p.id)
	p.id = 0
}

func (p *program) mappedName(name string) string {
	if mapped, ok := p.names[name]; ok {
		return mapped
	}
	return name
}

func (d *Device) NewProgram(src graphics.ProgramSource) (graphics.Program, []string, error) {
	vertexSource, fragmentSource := src.Vertex, src.Fragment
	names := map[string]string{}

	if src.Translate {
		gles := d.dialect == graphics.DialectESSL300

		vs, err := translator.Translate(src.Vertex, translator.StageVertex, gles)
		if err != nil {
			return nil, nil, err
		}

		fs, err := translator.Translate(src.Fragment, translator.StageFragment, gles)
		if err != nil {
			return nil, nil, err
		}

		for name, mapped := range vs.Names {
			names[name] = mapped
		}
		for name, mapped := range fs.Names {
			names[name] = mapped
		}

		vertexSource, fragmentSource = vs.Code, fs.Code
	}

	id, warnings, err := newProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, nil, fmt.Errorf("program %q: %w", src.Label, err)
	}

	p := &program{label: src.Label, id: id, names: names, dev: d}
	p.cleanup = runtime.AddCleanup(p, deleteProgram, id)

	return p, warnings, nil
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, []string, error) {
	vertexShader, vsWarnings, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, nil, err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, fsWarnings, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, nil, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := programInfoLog(program)
		gl.DeleteProgram(program)
		return 0, nil, fmt.Errorf("failed to link program: %v", log)
	}

	warnings := append(vsWarnings, fsWarnings...)
	if log := programInfoLog(program); log != "" {
		warnings = append(warnings, log)
	}

	return program, warnings, nil
}

// compileShader returns the info log of a successful compile as warnings.
func compileShader(source string, shaderType uint32) (uint32, []string, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		logText := shaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, nil, fmt.Errorf("failed to compile shader: %v", logText)
	}

	var warnings []string
	if logText := shaderInfoLog(shader); logText != "" {
		warnings = append(warnings, logText)
	}

	return shader, warnings, nil
}

func shaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}

	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
	return strings.TrimSpace(strings.TrimRight(logText, "\x00"))
}

func programInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}

	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
	return strings.TrimSpace(strings.TrimRight(logText, "\x00"))
}
