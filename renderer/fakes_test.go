package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/richinsley/goscene/camera"
	"github.com/richinsley/goscene/entity"
	"github.com/richinsley/goscene/level"
	"github.com/richinsley/goscene/level/leveltest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// recordingSurface logs every call and tracks what is still bound.
type recordingSurface struct {
	calls       []string
	targetBound bool
	slots       map[int]string
	uniforms    []camera.Uniforms
	materials   []*level.Material
	panicOnDraw bool
	drawErr     error
	presented   int
	captured    int
	pixels      []byte // returned by Capture when set
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{slots: make(map[int]string)}
}

func (s *recordingSurface) BindOutputTarget(targets []level.Texture) error {
	if s.targetBound {
		return errors.New("output target already bound")
	}
	s.targetBound = true
	s.calls = append(s.calls, fmt.Sprintf("target %d", len(targets)))
	return nil
}

func (s *recordingSurface) UnbindOutputTarget() {
	s.targetBound = false
	s.calls = append(s.calls, "untarget")
}

func (s *recordingSurface) SetDepthTest(enabled bool) {
	s.calls = append(s.calls, fmt.Sprintf("depth %t", enabled))
}

func (s *recordingSurface) UseShader(level.Shader) { s.calls = append(s.calls, "shader") }

func (s *recordingSurface) SetUniforms(u *camera.Uniforms) {
	s.uniforms = append(s.uniforms, *u)
}

func (s *recordingSurface) SetMaterial(m *level.Material) {
	s.materials = append(s.materials, m)
	s.calls = append(s.calls, "material")
}

func (s *recordingSurface) BindInputSlot(sampler string, tex level.Texture, slot int) {
	s.slots[slot] = sampler
	s.calls = append(s.calls, fmt.Sprintf("bind %s %d", sampler, slot))
}

func (s *recordingSurface) UnbindInputSlot(slot int) {
	delete(s.slots, slot)
	s.calls = append(s.calls, fmt.Sprintf("unbind %d", slot))
}

func (s *recordingSurface) Draw(mesh level.StaticMesh) error {
	if s.panicOnDraw {
		panic("draw failed")
	}
	s.calls = append(s.calls, fmt.Sprintf("draw %d", mesh.VertexCount()))
	return s.drawErr
}

func (s *recordingSurface) Present(level.Texture, int, int) { s.presented++ }

func (s *recordingSurface) Capture(tex level.Texture) ([]byte, error) {
	s.captured++
	if s.pixels != nil {
		return s.pixels, nil
	}
	res := tex.Resolution()
	return make([]byte, int(res[0])*int(res[1])*4), nil
}

// sceneFixture is a level holding a default quad plus the named textures.
type sceneFixture struct {
	t   *testing.T
	lvl *level.Level
}

func newSceneFixture(t *testing.T, textures ...string) *sceneFixture {
	f := &sceneFixture{t: t, lvl: level.New(zaptest.NewLogger(t))}
	_, err := f.lvl.AddStaticMesh("quad", leveltest.NewMesh(6))
	require.NoError(t, err)
	require.NoError(t, f.lvl.SetDefault(level.DefaultQuad, "quad"))
	for _, name := range textures {
		_, err := f.lvl.AddTexture(name, leveltest.NewTexture(8, 4))
		require.NoError(t, err)
	}
	return f
}

func (f *sceneFixture) id(name string) entity.ID {
	id, err := f.lvl.IDFromName(name)
	require.NoError(f.t, err)
	return id
}

func (f *sceneFixture) program(name string, inputs, outputs []string, root entity.ID) entity.ID {
	p := level.NewProgram(leveltest.NewShader())
	p.SceneRoot = root
	for _, in := range inputs {
		require.NoError(f.t, p.AddInputTexture(f.id(in)))
	}
	for _, out := range outputs {
		require.NoError(f.t, p.AddOutputTexture(f.id(out)))
	}
	id, err := f.lvl.AddProgram(name, p)
	require.NoError(f.t, err)
	return id
}

func (f *sceneFixture) executor(s Surface) *Executor {
	return NewExecutor(f.lvl, s, zaptest.NewLogger(f.t))
}

type frameSink struct {
	frames [][]byte
	err    error
}

func (s *frameSink) WriteFrame(pixels []byte) error {
	s.frames = append(s.frames, pixels)
	return s.err
}

// scriptedContext closes after a fixed number of frames.
type scriptedContext struct {
	frames int
	ended  int
	now    float64
}

func (c *scriptedContext) MakeCurrent()                   {}
func (c *scriptedContext) Shutdown()                      {}
func (c *scriptedContext) ShouldClose() bool              { return c.ended >= c.frames }
func (c *scriptedContext) EndFrame()                      { c.ended++; c.now += 0.5 }
func (c *scriptedContext) GetFramebufferSize() (int, int) { return 640, 360 }
func (c *scriptedContext) Time() float64                  { return c.now }
