package view

import "github.com/go-gl/mathgl/mgl32"

// State is the immutable per-frame camera: position plus forward and
// inverse matrices.
type State struct {
	Position      mgl32.Vec3
	View          mgl32.Mat4
	Projection    mgl32.Mat4
	InvView       mgl32.Mat4
	InvProjection mgl32.Mat4
}

// Ray returns the world-space primary ray through an NDC position in
// [-1,1]². The direction is unit length.
func (s State) Ray(ndcX, ndcY float32) (origin, dir mgl32.Vec3) {
	clip := mgl32.Vec4{ndcX, ndcY, -1, 1}
	eye := s.InvProjection.Mul4x1(clip)
	eye = mgl32.Vec4{eye.X(), eye.Y(), -1, 0}
	world := s.InvView.Mul4x1(eye).Vec3()
	return s.Position, world.Normalize()
}

// PixelNDC maps a pixel centre (plus a sub-pixel offset) to NDC. Pixel rows
// grow downward; NDC y grows upward.
func PixelNDC(px, py float32, width, height int) (float32, float32) {
	x := (px+0.5)/float32(width)*2 - 1
	y := 1 - (py+0.5)/float32(height)*2
	return x, y
}
