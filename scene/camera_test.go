package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gobloom/graphics"
)

func press(key graphics.Key) graphics.KeyEvent {
	return graphics.KeyEvent{Key: key, Action: graphics.Press}
}

func release(key graphics.Key) graphics.KeyEvent {
	return graphics.KeyEvent{Key: key, Action: graphics.Release}
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()

	if c.Pitch != 90 || c.Yaw != 0 || !c.Active || c.Position != (mgl32.Vec3{}) {
		t.Errorf("unexpected initial camera %+v", c)
	}
}

func TestCameraCursor(t *testing.T) {
	c := NewCamera()

	c.HandleCursor(graphics.CursorEvent{X: 50, Y: 100})
	if c.Pitch != 94 || c.Yaw != -2 {
		t.Errorf("angles = (%v, %v), want (94, -2)", c.Pitch, c.Yaw)
	}

	c.HandleKey(press(graphics.KeySpace))
	c.HandleCursor(graphics.CursorEvent{X: 500, Y: 500})
	if c.Pitch != 94 || c.Yaw != -2 {
		t.Errorf("cursor moved the camera while controls are disabled")
	}

	c.HandleKey(press(graphics.KeySpace))
	if !c.Active {
		t.Errorf("second space press did not enable controls")
	}
}

func TestCameraMovement(t *testing.T) {
	// with pitch 90 and yaw 0 the look vector is +y, right is +x and up is +z
	tests := []struct {
		key  graphics.Key
		want mgl32.Vec3
	}{
		{graphics.KeyW, mgl32.Vec3{0, MoveSpeed, 0}},
		{graphics.KeyS, mgl32.Vec3{0, -MoveSpeed, 0}},
		{graphics.KeyA, mgl32.Vec3{MoveSpeed, 0, 0}},
		{graphics.KeyD, mgl32.Vec3{-MoveSpeed, 0, 0}},
		{graphics.KeyQ, mgl32.Vec3{0, 0, MoveSpeed}},
		{graphics.KeyE, mgl32.Vec3{0, 0, -MoveSpeed}},
	}

	for _, tc := range tests {
		t.Run(tc.key.String(), func(t *testing.T) {
			c := NewCamera()

			c.HandleKey(press(tc.key))
			c.Update()
			c.Update()

			if want := tc.want.Mul(2); c.Position.Sub(want).Len() > 1e-5 {
				t.Errorf("position after two frames = %v, want %v", c.Position, want)
			}

			c.HandleKey(release(tc.key))
			c.Update()

			if want := tc.want.Mul(2); c.Position.Sub(want).Len() > 1e-5 {
				t.Errorf("camera moved after key release: %v", c.Position)
			}
		})
	}
}

func TestCameraInactiveDoesNotMove(t *testing.T) {
	c := NewCamera()

	c.HandleKey(press(graphics.KeyW))
	c.HandleKey(press(graphics.KeySpace))
	c.Update()

	if c.Position != (mgl32.Vec3{}) {
		t.Errorf("inactive camera moved to %v", c.Position)
	}
}

func TestCameraBookmark(t *testing.T) {
	c := NewCamera()
	c.HandleKey(press(graphics.KeyF1))

	if c.Position != (mgl32.Vec3{4.5, -4.5, 0.55}) || c.Pitch != 94.6 || c.Yaw != -45 {
		t.Errorf("F1 moved the camera to %v (%v, %v)", c.Position, c.Pitch, c.Yaw)
	}

	// releasing F1 does nothing
	c.Position = mgl32.Vec3{}
	c.HandleKey(release(graphics.KeyF1))
	if c.Position != (mgl32.Vec3{}) {
		t.Errorf("F1 release moved the camera")
	}
}

func TestCameraTransform(t *testing.T) {
	c := NewCamera()
	c.Position = mgl32.Vec3{1, 2, 3}
	c.Pitch, c.Yaw = 80, 30

	got := c.Transform(16.0/9.0, 45)

	want := mgl32.Perspective(mgl32.DegToRad(75), 16.0/9.0, 0.001, 1000).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(80))).
		Mul4(mgl32.Scale3D(1, 1, -1)).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(30))).
		Mul4(mgl32.Translate3D(1, 2, 3)).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(45)))

	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Transform() = %v, want %v", got, want)
	}
}

func TestAspect(t *testing.T) {
	if got := Aspect(graphics.Size{Width: 1280, Height: 720}); math32.Abs(got-16.0/9.0) > 1e-6 {
		t.Errorf("Aspect(1280x720) = %v", got)
	}

	if got := Aspect(graphics.Size{}); got != 1 {
		t.Errorf("Aspect(0x0) = %v", got)
	}
}
