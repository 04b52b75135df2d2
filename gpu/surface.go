package gpu

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/richinsley/goscene/camera"
	"github.com/richinsley/goscene/level"
	"github.com/richinsley/goscene/scenefile"
	"github.com/richinsley/goscene/shader"
)

// Surface drives OpenGL for the pass executor.
type Surface struct {
	framebuffer *Framebuffer
	blitProgram uint32
	blitTexLoc  int32
	quad        *Mesh
	program     *ShaderProgram
	log         *zap.Logger
}

// NewSurface builds the off-screen framebuffer and the blit program. The GL
// context must be current and Init must have succeeded.
func NewSurface(log *zap.Logger) (*Surface, error) {
	blit, err := newProgram(shader.GetBlitVertexShader(), shader.GetBlitFragmentShader(false))
	if err != nil {
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	quad, err := NewMesh(scenefile.QuadVertices())
	if err != nil {
		gl.DeleteProgram(blit)
		return nil, err
	}
	return &Surface{
		framebuffer: NewFramebuffer(),
		blitProgram: blit,
		blitTexLoc:  gl.GetUniformLocation(blit, gl.Str("u_texture\x00")),
		quad:        quad,
		log:         log,
	}, nil
}

func (s *Surface) BindOutputTarget(targets []level.Texture) error {
	width, height, err := s.framebuffer.Bind(targets)
	if err != nil {
		return err
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (s *Surface) UnbindOutputTarget() {
	s.framebuffer.Unbind()
}

func (s *Surface) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (s *Surface) UseShader(sh level.Shader) {
	p, ok := sh.(*ShaderProgram)
	if !ok {
		s.log.Warn("shader is not a GL program", zap.Uint32("handle", handleOf(sh)))
		s.program = nil
		gl.UseProgram(0)
		return
	}
	s.program = p
	gl.UseProgram(p.Handle())
}

func handleOf(sh level.Shader) uint32 {
	if sh == nil {
		return 0
	}
	return sh.Handle()
}

func (s *Surface) SetUniforms(u *camera.Uniforms) {
	p := s.program
	if p == nil {
		return
	}
	p.setMat4(shader.Projection, u.Projection)
	p.setMat4(shader.View, u.View)
	p.setMat4(shader.Model, u.Model)
	p.setVec3(shader.CameraPosition, u.CameraPosition)
	p.setVec3(shader.CameraFront, u.CameraFront)
	p.setVec3(shader.Resolution, u.Resolution)
	p.setFloat(shader.Time, u.Time)
	p.setFloat(shader.TimeDelta, u.TimeDelta)
	p.setInt(shader.Frame, u.Frame)
}

func (s *Surface) SetMaterial(m *level.Material) {
	p := s.program
	if p == nil {
		return
	}
	p.setVec3(shader.Ambient, m.Ambient)
	p.setVec3(shader.Diffuse, m.Diffuse)
	p.setVec3(shader.Specular, m.Specular)
	p.setFloat(shader.Shininess, m.Shininess)
}

func (s *Surface) BindInputSlot(sampler string, tex level.Texture, slot int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	gl.BindTexture(gl.TEXTURE_2D, tex.Handle())
	if s.program != nil {
		s.program.setInt(sampler, int32(slot))
	}
}

func (s *Surface) UnbindInputSlot(slot int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (s *Surface) Draw(mesh level.StaticMesh) error {
	gl.BindVertexArray(mesh.Handle())
	gl.DrawArrays(gl.TRIANGLES, 0, mesh.VertexCount())
	gl.BindVertexArray(0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("draw of vertex array %d failed: GL error 0x%x", mesh.Handle(), code)
	}
	return nil
}

// Present blits tex into the window's default framebuffer.
func (s *Surface) Present(tex level.Texture, width, height int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Disable(gl.DEPTH_TEST)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(s.blitProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.Handle())
	gl.Uniform1i(s.blitTexLoc, 0)
	gl.BindVertexArray(s.quad.Handle())
	gl.DrawArrays(gl.TRIANGLES, 0, s.quad.VertexCount())
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (s *Surface) Capture(tex level.Texture) ([]byte, error) {
	return s.framebuffer.ReadPixels(tex)
}

func (s *Surface) Destroy() {
	gl.DeleteProgram(s.blitProgram)
	s.quad.Destroy()
	s.framebuffer.Destroy()
}
