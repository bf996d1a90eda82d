package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAimCenter(t *testing.T) {
	c := NewViewCamera()
	c.Aim(mgl32.Vec4{0, 50, 0, 0}, mgl32.Vec3{100, 100, 1}, 0)

	if c.Yaw != 0 {
		t.Errorf("expected yaw 0, got %f", c.Yaw)
	}
	if math.Abs(float64(c.Pitch)) > 1e-6 {
		t.Errorf("expected level pitch, got %f", c.Pitch)
	}
	if !c.Forward().ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("expected forward +Z, got %v", c.Forward())
	}
}

func TestAimPitchRange(t *testing.T) {
	c := NewViewCamera()
	c.Aim(mgl32.Vec4{0, 100, 0, 0}, mgl32.Vec3{100, 100, 1}, 0)
	if c.Pitch != c.MaxPitch {
		t.Errorf("expected max pitch %f, got %f", c.MaxPitch, c.Pitch)
	}

	c.Aim(mgl32.Vec4{0, -500, 0, 0}, mgl32.Vec3{100, 100, 1}, 0)
	if c.Pitch != c.MinPitch {
		t.Errorf("expected clamped pitch %f, got %f", c.MinPitch, c.Pitch)
	}
}

func TestAimSpin(t *testing.T) {
	c := NewViewCamera()
	c.Aim(mgl32.Vec4{25, 50, 0, 0}, mgl32.Vec3{100, 100, 1}, 0)
	a := c.Yaw
	c.Aim(mgl32.Vec4{25, 50, 0, 0}, mgl32.Vec3{100, 100, 1}, 10)
	if d := c.Yaw - a; math.Abs(float64(d-10*c.SpinRate)) > 1e-5 {
		t.Errorf("expected spin of %f, got %f", 10*c.SpinRate, d)
	}
}

func TestAimZeroResolution(t *testing.T) {
	c := NewViewCamera()
	c.Aim(mgl32.Vec4{10, 10, 0, 0}, mgl32.Vec3{}, 0)
	if math.Abs(float64(c.Yaw-math.Pi)) > 1e-5 {
		t.Errorf("expected centered yaw, got %f", c.Yaw)
	}
}

func TestRayCenterIsForward(t *testing.T) {
	c := NewViewCamera()
	c.Yaw, c.Pitch = 0.7, 0.3

	ray := c.Ray(320, 240, 640, 480)
	if !ray.ApproxEqualThreshold(c.Forward(), 1e-5) {
		t.Errorf("expected center ray %v, got %v", c.Forward(), ray)
	}

	right, up, _ := c.Basis()
	if r := c.Ray(640, 240, 640, 480); r.Dot(right) <= 0 {
		t.Errorf("expected right edge ray to lean right, got %v", r)
	}
	if r := c.Ray(320, 480, 640, 480); r.Dot(up) <= 0 {
		t.Errorf("expected top edge ray to lean up, got %v", r)
	}
}

func TestViewMatrixLooksForward(t *testing.T) {
	c := NewViewCamera()
	c.Yaw = 1.2
	v := c.ViewMatrix()
	// forward maps to -Z in view space
	got := v.Mul4x1(c.Forward().Vec4(0)).Vec3()
	if !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("expected -Z, got %v", got)
	}
}
