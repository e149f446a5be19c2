package scene

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gobloom/graphics"
)

const (
	// MoveSpeed is the distance moved per frame while a movement key is held.
	MoveSpeed = 0.1

	// cursor pixels per degree
	cursorScale = 25

	fieldOfView = 75
	nearPlane   = 0.001
	farPlane    = 1000
)

var (
	bookmarkPosition = mgl32.Vec3{4.5, -4.5, 0.55}
	bookmarkPitch    = float32(94.6)
	bookmarkYaw      = float32(-45)
)

type movement int

const (
	moveForward movement = iota
	moveBack
	moveLeft
	moveRight
	moveUp
	moveDown
	movementCount
)

var movementKeys = map[graphics.Key]movement{
	graphics.KeyW: moveForward,
	graphics.KeyS: moveBack,
	graphics.KeyA: moveLeft,
	graphics.KeyD: moveRight,
	graphics.KeyQ: moveUp,
	graphics.KeyE: moveDown,
}

// Camera is a free flying camera. Angles are in degrees: Pitch rotates
// around x, Yaw around z.
type Camera struct {
	Position mgl32.Vec3
	Pitch    float32
	Yaw      float32

	// Active enables cursor look and movement.
	Active bool

	held [movementCount]bool
}

func NewCamera() *Camera {
	return &Camera{Pitch: 90, Active: true}
}

// HandleKey updates the held movement keys and runs the toggle and
// bookmark actions on key press.
func (c *Camera) HandleKey(ev graphics.KeyEvent) {
	if m, ok := movementKeys[ev.Key]; ok {
		c.held[m] = ev.Action != graphics.Release
		return
	}

	if ev.Action != graphics.Press {
		return
	}

	switch ev.Key {
	case graphics.KeySpace:
		c.Active = !c.Active
		if c.Active {
			slog.Info("Controls enabled")
		} else {
			slog.Info("Controls disabled")
		}

	case graphics.KeyP:
		slog.Info("Camera",
			slog.Any("position", c.Position),
			slog.Float64("pitch", float64(c.Pitch)),
			slog.Float64("yaw", float64(c.Yaw)),
		)

	case graphics.KeyF1:
		c.Position = bookmarkPosition
		c.Pitch, c.Yaw = bookmarkPitch, bookmarkYaw
	}
}

func (c *Camera) HandleCursor(ev graphics.CursorEvent) {
	if !c.Active {
		return
	}

	c.Pitch = 90 + float32(ev.Y)/cursorScale
	c.Yaw = float32(ev.X) / -cursorScale
}

// axes returns the movement basis scaled by MoveSpeed: up, right and look.
func (c *Camera) axes() (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	basis := mgl32.Rotate3DZ(mgl32.DegToRad(-c.Yaw)).
		Mul3(mgl32.Diag3(mgl32.Vec3{1, 1, -1})).
		Mul3(mgl32.Rotate3DX(mgl32.DegToRad(-c.Pitch)))

	up := basis.Mul3x1(mgl32.Vec3{0, MoveSpeed, 0})
	right := basis.Mul3x1(mgl32.Vec3{MoveSpeed, 0, 0})
	look := basis.Mul3x1(mgl32.Vec3{0, 0, MoveSpeed})

	return up, right, look
}

// Update moves the camera by one frame worth of held keys.
func (c *Camera) Update() {
	if !c.Active {
		return
	}

	up, right, look := c.axes()

	steps := [movementCount]mgl32.Vec3{
		moveForward: look,
		moveBack:    look.Mul(-1),
		moveLeft:    right,
		moveRight:   right.Mul(-1),
		moveUp:      up,
		moveDown:    up.Mul(-1),
	}

	for m, held := range c.held {
		if held {
			c.Position = c.Position.Add(steps[m])
		}
	}
}

// View returns the view transform without the projection.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(c.Pitch)).
		Mul4(mgl32.Scale3D(1, 1, -1)).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(c.Yaw))).
		Mul4(mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()))
}

// Transform is projection times view times a model spin of frame degrees
// around z.
func (c *Camera) Transform(aspect float32, frame int) mgl32.Mat4 {
	projection := mgl32.Perspective(mgl32.DegToRad(fieldOfView), aspect, nearPlane, farPlane)

	return projection.
		Mul4(c.View()).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(float32(frame))))
}

// Aspect is width over height of size, 1 for empty sizes.
func Aspect(size graphics.Size) float32 {
	if size.Empty() {
		return 1
	}
	return float32(size.Width) / float32(size.Height)
}
