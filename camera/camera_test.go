package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestViewLooksDownFront(t *testing.T) {
	c := New()
	// A point straight ahead of the camera lands on the view-space -Z axis.
	ahead := c.Position.Add(c.Front.Mul(5))
	v := c.View().Mul4x1(ahead.Vec4(1))
	assert.InDelta(t, 0, v.X(), 1e-5)
	assert.InDelta(t, 0, v.Y(), 1e-5)
	assert.InDelta(t, -5, v.Z(), 1e-5)
}

func TestSetAspect(t *testing.T) {
	c := New()
	c.SetAspect(800, 400)
	assert.Equal(t, float32(2), c.Aspect)

	c.SetAspect(0, 400)
	assert.Equal(t, float32(2), c.Aspect)
}

func TestOrientClampsPitch(t *testing.T) {
	c := New()
	c.Orient(-90, 120)
	assert.Less(t, c.Front.Y(), float32(1))
	assert.InDelta(t, 1, c.Front.Len(), 1e-5)
}

func TestInWorldTranslatesPosition(t *testing.T) {
	c := New()
	w := c.InWorld(mgl32.Translate3D(1, 2, 3))
	assert.True(t, w.Position.ApproxEqual(mgl32.Vec3{1, 2, 6}))
	assert.True(t, w.Front.ApproxEqual(c.Front))
	// The original is untouched.
	assert.True(t, c.Position.ApproxEqual(mgl32.Vec3{0, 0, 3}))
}

func TestNewUniforms(t *testing.T) {
	u := NewUniforms(nil, 640, 480, 1.5, 0.016, 7)
	assert.Equal(t, mgl32.Ident4(), u.Projection)
	assert.Equal(t, mgl32.Vec3{640, 480, 1}, u.Resolution)
	assert.Equal(t, int32(7), u.Frame)

	c := New()
	u = NewUniforms(c, 640, 480, 0, 0, 0)
	assert.Equal(t, c.View(), u.View)
	assert.Equal(t, c.Position, u.CameraPosition)

	m := u.WithModel(mgl32.Translate3D(1, 0, 0))
	assert.Equal(t, mgl32.Ident4(), u.Model)
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), m.Model)
}
