package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RotationMode selects how a Transform blends between its two orientations.
type RotationMode int

const (
	RotateEuler RotationMode = iota
	RotateQuaternion
)

// Transform is a translate-rotate-scale contribution. When Period is
// positive the rotation sweeps from From to To once per Period seconds;
// otherwise it stays at From. Angles are Euler XYZ in degrees.
type Transform struct {
	Translation mgl32.Vec3
	Scale       mgl32.Vec3 // zero means unit scale
	From        mgl32.Vec3
	To          mgl32.Vec3
	Mode        RotationMode
	Period      float64
}

// Blend returns the interpolation parameter in [0,1) for time t.
func (tr Transform) Blend(t float64) float32 {
	if tr.Period <= 0 {
		return 0
	}
	f := math.Mod(t, tr.Period) / tr.Period
	if f < 0 {
		f += 1
	}
	return float32(f)
}

// Rotation returns the blended orientation at time t.
func (tr Transform) Rotation(t float64) mgl32.Quat {
	a := tr.Blend(t)
	switch tr.Mode {
	case RotateQuaternion:
		return mgl32.QuatSlerp(eulerQuat(tr.From), eulerQuat(tr.To), a)
	default:
		return eulerQuat(tr.From.Add(tr.To.Sub(tr.From).Mul(a)))
	}
}

// Matrix returns T * R * S at time t.
func (tr Transform) Matrix(t float64) mgl32.Mat4 {
	s := tr.Scale
	if s == (mgl32.Vec3{}) {
		s = mgl32.Vec3{1, 1, 1}
	}
	m := mgl32.Translate3D(tr.Translation.X(), tr.Translation.Y(), tr.Translation.Z())
	m = m.Mul4(tr.Rotation(t).Mat4())
	return m.Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
}

func eulerQuat(deg mgl32.Vec3) mgl32.Quat {
	return mgl32.AnglesToQuat(
		mgl32.DegToRad(deg.X()),
		mgl32.DegToRad(deg.Y()),
		mgl32.DegToRad(deg.Z()),
		mgl32.XYZ,
	)
}
