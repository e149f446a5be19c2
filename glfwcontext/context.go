package glfwcontext

import (
	"log/slog"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/gobloom/graphics"
	"github.com/richinsley/gobloom/options"
)

// Context is a GLFW window with an OpenGL 4.1 core context. Window events
// are queued by the callbacks and handed out by PollEvents.
type Context struct {
	window *glfw.Window
	events []graphics.Event
}

var _ graphics.Context = (*Context)(nil)

var keys = map[glfw.Key]graphics.Key{
	glfw.KeyW:      graphics.KeyW,
	glfw.KeyS:      graphics.KeyS,
	glfw.KeyA:      graphics.KeyA,
	glfw.KeyD:      graphics.KeyD,
	glfw.KeyQ:      graphics.KeyQ,
	glfw.KeyE:      graphics.KeyE,
	glfw.KeySpace:  graphics.KeySpace,
	glfw.KeyP:      graphics.KeyP,
	glfw.KeyF1:     graphics.KeyF1,
	glfw.KeyEscape: graphics.KeyEscape,
}

var actions = map[glfw.Action]graphics.Action{
	glfw.Release: graphics.Release,
	glfw.Press:   graphics.Press,
	glfw.Repeat:  graphics.Repeat,
}

// New creates the window and its context. Must be called from the main thread.
func New(options *options.Options) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(*options.Width, *options.Height, "gobloom", nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win}

	win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	win.SetCloseCallback(c.glfwCloseCallback)

	return c, nil
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k, ok := keys[key]
	if !ok {
		return
	}

	c.events = append(c.events, graphics.KeyEvent{Key: k, Action: actions[action]})
}

func (c *Context) glfwCursorCallback(w *glfw.Window, x, y float64) {
	c.events = append(c.events, graphics.CursorEvent{X: x, Y: y})
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	c.events = append(c.events, graphics.ResizeEvent{Width: uint32(width), Height: uint32(height)})
}

func (c *Context) glfwCloseCallback(w *glfw.Window) {
	c.events = append(c.events, graphics.CloseEvent{})
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
}

func (c *Context) PollEvents() []graphics.Event {
	glfw.PollEvents()

	events := c.events
	c.events = nil
	return events
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	slog.Debug("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	slog.Debug("GLFW terminated")
}
