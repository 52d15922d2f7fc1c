// Package view holds the first-person camera and the per-frame view state
// derived from it.
package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Movement is a keyboard movement direction.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
	Up
	Down
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a yaw/pitch first-person camera.
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3

	// Euler angles in degrees
	Yaw   float32
	Pitch float32

	Fov         float32 // vertical, degrees
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	MovementSpeed    float32 // units per second
	MouseSensitivity float32 // degrees per pixel

	// Zoom limits for HandleZoom
	MinFov, MaxFov float32
}

// NewCamera creates a camera at (0,0,3) looking down -Z.
func NewCamera() *Camera {
	c := &Camera{
		Position:         mgl32.Vec3{0, 0, 3},
		Yaw:              -90,
		Pitch:            0,
		Fov:              45,
		AspectRatio:      16.0 / 9.0,
		NearPlane:        0.1,
		FarPlane:         100,
		MovementSpeed:    2.5,
		MouseSensitivity: 0.1,
		MinFov:           1,
		MaxFov:           90,
	}
	c.UpdateVectors()
	return c
}

// UpdateVectors recomputes the orthonormal basis from yaw and pitch.
func (c *Camera) UpdateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))

	c.Front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.Right = c.Front.Cross(worldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// HandleMovement moves the camera along its basis for dt seconds.
func (c *Camera) HandleMovement(dir Movement, dt float32) {
	v := c.MovementSpeed * dt
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(v))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(v))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(v))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(v))
	case Up:
		c.Position = c.Position.Add(worldUp.Mul(v))
	case Down:
		c.Position = c.Position.Sub(worldUp.Mul(v))
	}
}

// HandleDrag turns the camera by a mouse delta in pixels. Screen y grows
// downward, so pass (lastY - y) for a natural look.
func (c *Camera) HandleDrag(deltaX, deltaY float32, constrainPitch bool) {
	c.Yaw += deltaX * c.MouseSensitivity
	c.Pitch += deltaY * c.MouseSensitivity

	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -89, 89)
	}
	c.UpdateVectors()
}

// HandleZoom narrows the field of view on positive wheel deltas.
func (c *Camera) HandleZoom(delta float32) {
	c.Fov = mgl32.Clamp(c.Fov-delta, c.MinFov, c.MaxFov)
}

// SetAspectRatio updates the aspect from a framebuffer size.
func (c *Camera) SetAspectRatio(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// State snapshots the camera for one frame.
func (c *Camera) State() State {
	v := c.ViewMatrix()
	p := c.ProjectionMatrix()
	return State{
		Position:      c.Position,
		View:          v,
		Projection:    p,
		InvView:       v.Inv(),
		InvProjection: p.Inv(),
	}
}
