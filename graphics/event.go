package graphics

// Event is one window event: CloseEvent, ResizeEvent, KeyEvent or CursorEvent.
type Event interface {
	isEvent()
}

// CloseEvent is sent when the user asks the window to close.
type CloseEvent struct{}

// ResizeEvent carries the new framebuffer size in pixels.
type ResizeEvent struct {
	Width  uint32
	Height uint32
}

// KeyEvent is a keyboard state change.
type KeyEvent struct {
	Key    Key
	Action Action
}

// CursorEvent carries the cursor position in screen coordinates.
type CursorEvent struct {
	X, Y float64
}

func (CloseEvent) isEvent()  {}
func (ResizeEvent) isEvent() {}
func (KeyEvent) isEvent()    {}
func (CursorEvent) isEvent() {}

type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyS
	KeyA
	KeyD
	KeyQ
	KeyE
	KeySpace
	KeyP
	KeyF1
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyW:
		return "W"
	case KeyS:
		return "S"
	case KeyA:
		return "A"
	case KeyD:
		return "D"
	case KeyQ:
		return "Q"
	case KeyE:
		return "E"
	case KeySpace:
		return "Space"
	case KeyP:
		return "P"
	case KeyF1:
		return "F1"
	case KeyEscape:
		return "Escape"
	default:
		return "Unknown"
	}
}

type Action int

const (
	Release Action = iota
	Press
	Repeat
)
