package gpu

import (
	"image"
	"image/color"
	"testing"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
)

func TestVflip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		src.Set(0, y, color.RGBA{R: uint8(y), A: 255})
	}
	out := vflip(src)
	for y := 0; y < 3; y++ {
		assert.Equal(t, uint8(2-y), out.RGBAAt(0, y).R)
	}
}

func TestToRGBARebasesBounds(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 7, 6))
	src.SetGray(5, 5, color.Gray{Y: 200})
	out := toRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Bounds())
	assert.Equal(t, color.RGBA{R: 200, G: 200, B: 200, A: 255}, out.RGBAAt(0, 0))
}

func TestSamplerModes(t *testing.T) {
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), getWrapMode("clamp"))
	assert.Equal(t, int32(gl.REPEAT), getWrapMode(""))
	min, mag := getFilterMode("mipmap")
	assert.Equal(t, int32(gl.LINEAR_MIPMAP_LINEAR), min)
	assert.Equal(t, int32(gl.LINEAR), mag)
	min, _ = getFilterMode("nearest")
	assert.Equal(t, int32(gl.NEAREST), min)
}

func TestColorFormat(t *testing.T) {
	internal, pixelType := colorFormat(16)
	assert.Equal(t, int32(gl.RGBA16F), internal)
	assert.Equal(t, uint32(gl.FLOAT), pixelType)
	internal, _ = colorFormat(8)
	assert.Equal(t, int32(gl.RGBA8), internal)
}
