package graphicstest

import "github.com/richinsley/gobloom/graphics"

// Window is a scripted graphics.Context. Every call to PollEvents returns the
// next entry of Frames; once Frames is exhausted the window asks to close.
type Window struct {
	Width, Height int
	Frames        [][]graphics.Event
	GLES          bool

	Polls      int
	Swaps      int
	Current    bool
	Terminated bool

	closing bool
}

func NewWindow(width, height int, frames ...[]graphics.Event) *Window {
	return &Window{Width: width, Height: height, Frames: frames}
}

func (w *Window) MakeCurrent() { w.Current = true }
func (w *Window) Shutdown()    { w.Terminated = true }
func (w *Window) EndFrame()    { w.Swaps++ }
func (w *Window) IsGLES() bool { return w.GLES }

func (w *Window) ShouldClose() bool {
	return w.closing || w.Polls >= len(w.Frames)
}

func (w *Window) PollEvents() []graphics.Event {
	if w.Polls >= len(w.Frames) {
		w.closing = true
		return nil
	}

	events := w.Frames[w.Polls]
	w.Polls++

	for _, ev := range events {
		if resize, ok := ev.(graphics.ResizeEvent); ok {
			w.Width, w.Height = int(resize.Width), int(resize.Height)
		}
	}

	return events
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Width, w.Height
}
