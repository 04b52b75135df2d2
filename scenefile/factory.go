package scenefile

import (
	"image"

	"github.com/richinsley/goscene/level"
)

// Factory creates the GPU resources a scene description names.
type Factory interface {
	NewRenderTexture(width, height int) (level.Texture, error)
	NewImageTexture(img image.Image, sampler Sampler) (level.Texture, error)
	NewMesh(vertices []float32) (level.StaticMesh, error)
	NewBuffer(size int) (level.Buffer, error)
	NewShader(src ShaderSource) (level.Shader, error)
}

// Sampler describes how an image texture is filtered and uploaded.
type Sampler struct {
	Wrap   string `yaml:"wrap"`   // "repeat" or "clamp"
	Filter string `yaml:"filter"` // "nearest", "linear" or "mipmap"
	VFlip  bool   `yaml:"vflip"`
	SRGB   bool   `yaml:"srgb"`
}

// ShaderSource is the GLSL ES 3.00 code of one program.
type ShaderSource struct {
	Common   string
	Fragment string
	// Inputs is the number of iChannelN samplers to declare.
	Inputs int
	// Samplers are the material sampler names drawn by this program.
	Samplers []string
}

// VertexStride is the number of floats per vertex: position, normal, uv.
const VertexStride = 8
