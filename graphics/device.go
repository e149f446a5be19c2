package graphics

import (
	"errors"
	"fmt"
	"structs"
)

var (
	ErrInvalidSize           = errors.New("invalid size")
	ErrUnsupportedFormat     = errors.New("unsupported pixel format")
	ErrTooManyAttachments    = errors.New("too many color attachments")
	ErrIncompleteFramebuffer = errors.New("framebuffer is not complete")
)

// MaxColorAttachments is the number of color attachments every device supports.
const MaxColorAttachments = 4

// Size is the pixel size shared by every attachment of a RenderTarget.
type Size struct {
	Width  uint32
	Height uint32
}

func (s Size) Empty() bool {
	return s.Width == 0 || s.Height == 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

type PixelFormat int

const (
	FormatNone PixelFormat = iota
	FormatRGBA8
	FormatR11G11B10F
	FormatRGB32F
	FormatRGBA32F
	FormatDepth32F
)

func (f PixelFormat) String() string {
	switch f {
	case FormatNone:
		return "None"
	case FormatRGBA8:
		return "RGBA8"
	case FormatR11G11B10F:
		return "R11G11B10F"
	case FormatRGB32F:
		return "RGB32F"
	case FormatRGBA32F:
		return "RGBA32F"
	case FormatDepth32F:
		return "Depth32F"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

func (f PixelFormat) IsDepth() bool {
	return f == FormatDepth32F
}

// IsFloat reports whether the format can hold values outside of [0, 1].
func (f PixelFormat) IsFloat() bool {
	switch f {
	case FormatR11G11B10F, FormatRGB32F, FormatRGBA32F, FormatDepth32F:
		return true
	}
	return false
}

// Dialect is the shading language a device compiles.
type Dialect int

const (
	DialectGLSL410 Dialect = iota
	DialectESSL300
)

// Texture is one attachment of a RenderTarget. It can be bound as a shader input.
type Texture interface {
	Size() Size
	Format() PixelFormat
}

// TargetDescriptor describes a RenderTarget to allocate.
type TargetDescriptor struct {
	Label string
	Size  Size
	Color []PixelFormat
	// Depth is FormatNone for targets without a depth attachment.
	Depth PixelFormat
}

// Validate checks the descriptor without touching any device.
func (d TargetDescriptor) Validate() error {
	if d.Size.Empty() {
		return fmt.Errorf("target %q of size %s: %w", d.Label, d.Size, ErrInvalidSize)
	}

	if len(d.Color) > MaxColorAttachments {
		return fmt.Errorf("target %q with %d attachments: %w", d.Label, len(d.Color), ErrTooManyAttachments)
	}

	for idx, format := range d.Color {
		if format == FormatNone || format.IsDepth() {
			return fmt.Errorf("target %q color attachment %d as %s: %w", d.Label, idx, format, ErrUnsupportedFormat)
		}
	}

	if d.Depth != FormatNone && !d.Depth.IsDepth() {
		return fmt.Errorf("target %q depth attachment as %s: %w", d.Label, d.Depth, ErrUnsupportedFormat)
	}

	if len(d.Color) == 0 && d.Depth == FormatNone {
		return fmt.Errorf("target %q has no attachments: %w", d.Label, ErrUnsupportedFormat)
	}

	return nil
}

// RenderTarget bundles color attachments and an optional depth attachment
// of one fixed Size. It is owned by whoever allocated it.
type RenderTarget interface {
	Label() string
	Size() Size
	ColorCount() int
	Color(idx int) Texture
	// Depth returns nil for targets without a depth attachment.
	Depth() Texture
	// Release frees the GPU memory. The target must not be used afterwards.
	Release()
}

// ProgramSource is the source of a shader program.
type ProgramSource struct {
	Label    string
	Vertex   string
	Fragment string

	// Translate marks both stages as WebGL2 GLSL that has to be translated
	// to the dialect of the device before compiling.
	Translate bool
}

type Program interface {
	Label() string
	Release()
}

// Vertex is the per-vertex input of the geometry program.
type Vertex struct {
	_ structs.HostLayout

	Position [3]float32
	Color    [4]float32
}

// GeometryDescriptor describes vertex and index data to upload. If Vertices
// is empty, the geometry has no vertex payload and VertexCount vertices are
// generated by the vertex stage from their index.
type GeometryDescriptor struct {
	Label       string
	VertexCount int
	Vertices    []Vertex
	Indices     []uint32

	// Dynamic geometries accept WriteVertices.
	Dynamic bool
}

type Geometry interface {
	Label() string
	VertexCount() int
	// WriteVertices replaces the vertex data. The number of vertices must not change.
	WriteVertices(vertices []Vertex) error
	Release()
}

type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// RenderState is the fixed function state of one draw. Faces are wound counter clockwise.
type RenderState struct {
	Cull      CullMode
	DepthTest bool
}

// DrawCall is one draw of a geometry with a program into a target. The target
// is cleared to ClearColor (and depth to 1) before drawing.
type DrawCall struct {
	Target     RenderTarget
	ClearColor [4]float32
	Program    Program
	Geometry   Geometry
	State      RenderState
}

// Uniforms is the draw scoped binding context handed to the bind function of
// Device.Draw. Values written to it are only valid for that single draw.
type Uniforms interface {
	SetTexture(name string, tex Texture)
	SetFloat(name string, value float32)
	SetMat4(name string, value [16]float32)
}

// Device is the GPU collaborator of the pipeline.
type Device interface {
	Dialect() Dialect

	NewRenderTarget(desc TargetDescriptor) (RenderTarget, error)

	// BackBuffer returns the presentation surface of the given size. It owns
	// no memory, releasing it is a no-op.
	BackBuffer(size Size) RenderTarget

	// NewProgram compiles and links a program. Non fatal compiler output is
	// returned as warnings.
	NewProgram(src ProgramSource) (Program, []string, error)

	NewGeometry(desc GeometryDescriptor) (Geometry, error)

	// Draw binds the target and the program, calls bind to set the uniforms,
	// issues the draw and unbinds every texture bound through bind.
	Draw(call DrawCall, bind func(u Uniforms))
}
