package renderer

import (
	"fmt"
	"log/slog"

	"github.com/richinsley/gobloom/graphics"
)

// ResourceAllocationError is returned when a render target or a shader
// program could not be built. The pipeline cannot render without it.
type ResourceAllocationError struct {
	Resource string

	// Size is zero for programs.
	Size graphics.Size

	Err error
}

func (e *ResourceAllocationError) Error() string {
	if e.Size.Empty() {
		return fmt.Sprintf("allocate %s: %v", e.Resource, e.Err)
	}

	return fmt.Sprintf("allocate %s (%s): %v", e.Resource, e.Size, e.Err)
}

func (e *ResourceAllocationError) Unwrap() error {
	return e.Err
}

// ShaderCompileWarning is non fatal compiler output for a program.
type ShaderCompileWarning struct {
	Program string
	Message string
}

func (w ShaderCompileWarning) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("program", w.Program),
		slog.String("message", w.Message),
	)
}

func logCompileWarnings(program string, warnings []string) {
	for _, message := range warnings {
		slog.Warn("Shader compile warning", slog.Any("warning", ShaderCompileWarning{
			Program: program,
			Message: message,
		}))
	}
}

// NewProgram compiles src and logs its warnings.
func NewProgram(dev graphics.Device, src graphics.ProgramSource) (graphics.Program, error) {
	program, warnings, err := dev.NewProgram(src)
	if err != nil {
		return nil, &ResourceAllocationError{Resource: src.Label + " program", Err: err}
	}

	logCompileWarnings(src.Label, warnings)

	return program, nil
}
