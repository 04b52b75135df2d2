package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformStatic(t *testing.T) {
	tr := Transform{Translation: mgl32.Vec3{1, 0, 0}}
	assert.Equal(t, float32(0), tr.Blend(5))
	assert.True(t, tr.Matrix(5).ApproxEqual(mgl32.Translate3D(1, 0, 0)))
}

func TestTransformBlend(t *testing.T) {
	tr := Transform{Period: 4}
	assert.InDelta(t, 0.25, tr.Blend(1), 1e-6)
	assert.InDelta(t, 0.5, tr.Blend(6), 1e-6)
	assert.InDelta(t, 0.75, tr.Blend(-1), 1e-6)
}

func TestTransformRotationModesAgreeAtEnds(t *testing.T) {
	for _, mode := range []RotationMode{RotateEuler, RotateQuaternion} {
		tr := Transform{To: mgl32.Vec3{0, 90, 0}, Mode: mode, Period: 2}
		start := tr.Rotation(0).Rotate(mgl32.Vec3{1, 0, 0})
		assert.True(t, start.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5))

		// Halfway through the sweep is a 45 degree turn about Y in both modes.
		half := tr.Rotation(1).Rotate(mgl32.Vec3{1, 0, 0})
		assert.InDelta(t, 0.7071, half.X(), 1e-3)
		assert.InDelta(t, -0.7071, half.Z(), 1e-3)
	}
}

func TestTransformNodeContribution(t *testing.T) {
	tr := Transform{Scale: mgl32.Vec3{2, 2, 2}}
	n := NewTransform("t", "", tr)
	p := n.Contribution(0).Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.True(t, p.ApproxEqual(mgl32.Vec4{2, 2, 2, 1}))
}
