package gpu

import (
	"image"

	"go.uber.org/zap"

	"github.com/richinsley/goscene/level"
	"github.com/richinsley/goscene/scenefile"
	"github.com/richinsley/goscene/shader"
)

// Factory creates GL resources for scenefile.Build.
type Factory struct {
	translator *shader.Translator
	bitDepth   int
	log        *zap.Logger
}

func NewFactory(translator *shader.Translator, bitDepth int, log *zap.Logger) *Factory {
	return &Factory{translator: translator, bitDepth: bitDepth, log: log}
}

func (f *Factory) NewRenderTexture(width, height int) (level.Texture, error) {
	t, err := NewRenderTexture(width, height, f.bitDepth)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (f *Factory) NewImageTexture(img image.Image, sampler scenefile.Sampler) (level.Texture, error) {
	t, err := NewImageTexture(img, sampler)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (f *Factory) NewMesh(vertices []float32) (level.StaticMesh, error) {
	m, err := NewMesh(vertices)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (f *Factory) NewBuffer(size int) (level.Buffer, error) {
	b, err := NewBuffer(size)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (f *Factory) NewShader(src scenefile.ShaderSource) (level.Shader, error) {
	vs, err := f.translator.Vertex(shader.GenerateVertexShader())
	if err != nil {
		return nil, err
	}
	fs, err := f.translator.Fragment(shader.GetFragmentShader(src.Inputs, src.Samplers, src.Common, src.Fragment))
	if err != nil {
		return nil, err
	}
	p, err := NewShaderProgram(vs.Code, fs.Code, shader.Merge(vs, fs))
	if err != nil {
		return nil, err
	}
	f.log.Debug("shader program linked", zap.Uint32("program", p.Handle()), zap.Int("inputs", src.Inputs))
	return p, nil
}
