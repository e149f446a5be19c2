package graphics

// Context defines the interface for the window and its OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the back buffer. It blocks until the swap is done.
	EndFrame()
	// PollEvents returns the window events that arrived since the last call,
	// in the order they were received.
	PollEvents() []Event
	GetFramebufferSize() (int, int)
	// IsGLES reports whether the context speaks OpenGL ES.
	IsGLES() bool
}
