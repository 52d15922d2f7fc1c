package view

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec(t *testing.T, want, got mgl32.Vec3, msg string) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-5, "%s component %d", msg, i)
	}
}

func assertOrthonormal(t *testing.T, c *Camera) {
	t.Helper()
	assert.InDelta(t, 1, c.Front.Len(), 1e-5)
	assert.InDelta(t, 1, c.Up.Len(), 1e-5)
	assert.InDelta(t, 1, c.Right.Len(), 1e-5)
	assert.InDelta(t, 0, c.Front.Dot(c.Up), 1e-5)
	assert.InDelta(t, 0, c.Front.Dot(c.Right), 1e-5)
	assert.InDelta(t, 0, c.Up.Dot(c.Right), 1e-5)
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assertVec(t, mgl32.Vec3{0, 0, 3}, c.Position, "position")
	assertVec(t, mgl32.Vec3{0, 0, -1}, c.Front, "front")
	assertVec(t, mgl32.Vec3{0, 1, 0}, c.Up, "up")
	assertVec(t, mgl32.Vec3{1, 0, 0}, c.Right, "right")
	assertOrthonormal(t, c)
}

func TestHandleDragKeepsBasisOrthonormal(t *testing.T) {
	c := NewCamera()
	deltas := [][2]float32{{120, 40}, {-300, 900}, {45, -2000}, {17, 3}}
	for _, d := range deltas {
		c.HandleDrag(d[0], d[1], true)
		assertOrthonormal(t, c)
		assert.LessOrEqual(t, c.Pitch, float32(89))
		assert.GreaterOrEqual(t, c.Pitch, float32(-89))
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewCamera()
	c.HandleZoom(10)
	assert.Equal(t, float32(35), c.Fov)
	c.HandleZoom(100)
	assert.Equal(t, float32(1), c.Fov)
	c.HandleZoom(-500)
	assert.Equal(t, float32(90), c.Fov)
}

func TestHandleMovement(t *testing.T) {
	tests := []struct {
		dir  Movement
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{0, 0, 0.5}},
		{Backward, mgl32.Vec3{0, 0, 5.5}},
		{Left, mgl32.Vec3{-2.5, 0, 3}},
		{Right, mgl32.Vec3{2.5, 0, 3}},
		{Up, mgl32.Vec3{0, 2.5, 3}},
		{Down, mgl32.Vec3{0, -2.5, 3}},
	}
	for _, tt := range tests {
		c := NewCamera()
		c.HandleMovement(tt.dir, 1)
		assertVec(t, tt.want, c.Position, "movement")
	}
}

func TestCenterRayLooksForward(t *testing.T) {
	c := NewCamera()
	c.SetAspectRatio(1280, 720)
	o, d := c.State().Ray(0, 0)
	assertVec(t, c.Position, o, "origin")
	assertVec(t, c.Front, d, "direction")
}

func TestRayCornersSpanFov(t *testing.T) {
	c := NewCamera()
	c.AspectRatio = 1
	c.Fov = 90
	_, d := c.State().Ray(0, 1)
	// Top edge of a 90 degree frustum is 45 degrees above the view axis.
	assert.InDelta(t, 0.7071, d.Y(), 1e-3)
	assert.InDelta(t, -0.7071, d.Z(), 1e-3)

	_, d = c.State().Ray(1, 0)
	assert.InDelta(t, 0.7071, d.X(), 1e-3)
}

func TestPixelNDC(t *testing.T) {
	x, y := PixelNDC(0, 0, 2, 2)
	assert.InDelta(t, -0.5, x, 1e-6)
	assert.InDelta(t, 0.5, y, 1e-6)
	x, y = PixelNDC(1, 1, 2, 2)
	assert.InDelta(t, 0.5, x, 1e-6)
	assert.InDelta(t, -0.5, y, 1e-6)
}
