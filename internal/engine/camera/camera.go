// Package camera provides the preview view camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ViewCamera looks out from the center of the cube. The pointer steers yaw
// and pitch; time adds a slow spin around the vertical axis.
type ViewCamera struct {
	Yaw   float32 // radians, around +Y
	Pitch float32 // radians, positive looks up

	// Vertical field of view in radians.
	FOV float32

	// Constraints
	MinPitch float32
	MaxPitch float32

	// Radians per second added to yaw.
	SpinRate float32
}

// NewViewCamera creates a camera with default settings.
func NewViewCamera() *ViewCamera {
	return &ViewCamera{
		FOV:      mgl32.DegToRad(75),
		MinPitch: -1.4,
		MaxPitch: 1.4,
		SpinRate: 0.1,
	}
}

// Aim sets yaw and pitch from a pointer position in surface pixels (origin
// bottom-left) at the given resolution and time in seconds. The horizontal
// pointer position covers a full turn; the vertical one covers the pitch
// range.
func (c *ViewCamera) Aim(mouse mgl32.Vec4, resolution mgl32.Vec3, seconds float32) {
	var u, v float32 = 0.5, 0.5
	if resolution[0] > 0 {
		u = mouse[0] / resolution[0]
	}
	if resolution[1] > 0 {
		v = mouse[1] / resolution[1]
	}

	c.Yaw = u*2*math.Pi + seconds*c.SpinRate
	c.Pitch = c.MinPitch + v*(c.MaxPitch-c.MinPitch)
	c.Pitch = mgl32.Clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// Forward returns the view direction.
func (c *ViewCamera) Forward() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	return mgl32.Vec3{float32(cp * sy), float32(sp), float32(cp * cy)}
}

// Basis returns the right, up and forward vectors.
func (c *ViewCamera) Basis() (right, up, forward mgl32.Vec3) {
	forward = c.Forward()
	right = forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// ViewMatrix returns the view matrix for this camera at the origin.
func (c *ViewCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(mgl32.Vec3{}, c.Forward(), mgl32.Vec3{0, 1, 0})
}

// Ray returns the unit direction through surface point (x, y), origin
// bottom-left, on a width×height surface.
func (c *ViewCamera) Ray(x, y float32, width, height int) mgl32.Vec3 {
	right, up, forward := c.Basis()
	return RayFromBasis(right, up, forward, c.FOV, x, y, width, height)
}

// RayFromBasis is Ray with a precomputed basis, for per-pixel loops.
func RayFromBasis(right, up, forward mgl32.Vec3, fov, x, y float32, width, height int) mgl32.Vec3 {
	if width <= 0 || height <= 0 {
		return forward
	}
	scale := float32(math.Tan(float64(fov) / 2))
	aspect := float32(width) / float32(height)
	px := (2*x/float32(width) - 1) * aspect * scale
	py := (2*y/float32(height) - 1) * scale
	return forward.Add(right.Mul(px)).Add(up.Mul(py)).Normalize()
}
