// Package camera provides the viewer model and the per-frame uniform feed
// consumed by every render pass.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera described in its node's local space.
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32 // vertical field of view in degrees
	Aspect   float32
	Near     float32
	Far      float32
}

// New returns a camera three units back from the origin looking down -Z.
func New() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 0, 3},
		Front:    mgl32.Vec3{0, 0, -1},
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     45,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      100,
	}
}

// View returns the world-to-view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// Projection returns the view-to-clip matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// SetAspect updates the aspect ratio from a framebuffer size. Degenerate
// sizes are ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Orient points the camera using yaw and pitch in degrees. Pitch is clamped
// short of the poles so the view matrix stays well defined.
func (c *Camera) Orient(yaw, pitch float32) {
	if pitch > 89 {
		pitch = 89
	}
	if pitch < -89 {
		pitch = -89
	}
	y := float64(mgl32.DegToRad(yaw))
	p := float64(mgl32.DegToRad(pitch))
	c.Front = mgl32.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(math.Sin(y) * math.Cos(p)),
	}.Normalize()
}

// InWorld returns a copy of the camera with its position and basis moved by
// the world transform of the node carrying it.
func (c *Camera) InWorld(model mgl32.Mat4) *Camera {
	out := *c
	out.Position = model.Mul4x1(c.Position.Vec4(1)).Vec3()
	if f := model.Mul4x1(c.Front.Vec4(0)).Vec3(); f.Len() > 0 {
		out.Front = f.Normalize()
	}
	if u := model.Mul4x1(c.Up.Vec4(0)).Vec3(); u.Len() > 0 {
		out.Up = u.Normalize()
	}
	return &out
}
