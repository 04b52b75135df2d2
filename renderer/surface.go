package renderer

import (
	"github.com/richinsley/goscene/camera"
	"github.com/richinsley/goscene/level"
)

// Surface is the rasterizer the executor drives. Implementations own the
// off-screen framebuffer and the texture units; the executor guarantees
// every Bind is matched by its Unbind, panics included.
type Surface interface {
	// BindOutputTarget makes the off-screen target (color attachments plus
	// depth storage) current and attaches targets in order.
	BindOutputTarget(targets []level.Texture) error
	UnbindOutputTarget()
	SetDepthTest(enabled bool)
	UseShader(shader level.Shader)
	SetUniforms(u *camera.Uniforms)
	SetMaterial(m *level.Material)
	// BindInputSlot binds tex to texture unit slot and points the named
	// sampler uniform at it.
	BindInputSlot(sampler string, tex level.Texture, slot int)
	UnbindInputSlot(slot int)
	Draw(mesh level.StaticMesh) error
	// Present draws tex to the window's default framebuffer.
	Present(tex level.Texture, width, height int)
	// Capture reads tex back as tightly packed RGBA8 rows, bottom row first.
	Capture(tex level.Texture) ([]byte, error)
}
