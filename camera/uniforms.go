package camera

import "github.com/go-gl/mathgl/mgl32"

// Uniforms holds the values uploaded to every pass's shader. It is built
// once per frame and only the model matrix changes between draws.
type Uniforms struct {
	Projection     mgl32.Mat4
	View           mgl32.Mat4
	Model          mgl32.Mat4
	CameraPosition mgl32.Vec3
	CameraFront    mgl32.Vec3
	Resolution     mgl32.Vec3
	Time           float32
	TimeDelta      float32
	Frame          int32
}

// NewUniforms builds the frame uniforms for cam. A nil camera yields identity
// projection and view, which is what full screen passes expect.
func NewUniforms(cam *Camera, width, height int, time, delta float64, frame int32) *Uniforms {
	u := &Uniforms{
		Projection: mgl32.Ident4(),
		View:       mgl32.Ident4(),
		Model:      mgl32.Ident4(),
		Resolution: mgl32.Vec3{float32(width), float32(height), 1},
		Time:       float32(time),
		TimeDelta:  float32(delta),
		Frame:      frame,
	}
	if cam != nil {
		u.Projection = cam.Projection()
		u.View = cam.View()
		u.CameraPosition = cam.Position
		u.CameraFront = cam.Front
	}
	return u
}

// WithModel returns a copy of u using model as the model matrix.
func (u *Uniforms) WithModel(model mgl32.Mat4) *Uniforms {
	out := *u
	out.Model = model
	return &out
}
