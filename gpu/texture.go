package gpu

import (
	"fmt"
	"image"
	"image/draw"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/goscene/scenefile"
)

// RenderTexture is a texture passes draw into.
type RenderTexture struct {
	textureID  uint32
	resolution [3]float32
	bitDepth   int
}

func NewRenderTexture(width, height, bitDepth int) (*RenderTexture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render texture size %dx%d must be positive", width, height)
	}
	t := &RenderTexture{bitDepth: bitDepth}
	gl.GenTextures(1, &t.textureID)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	t.Resize(width, height)
	return t, nil
}

// Resize reallocates the storage. Contents are lost.
func (t *RenderTexture) Resize(width, height int) {
	if width == int(t.resolution[0]) && height == int(t.resolution[1]) {
		return
	}
	internal, pixelType := colorFormat(t.bitDepth)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0, gl.RGBA, pixelType, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	t.resolution = [3]float32{float32(width), float32(height), 1.0}
}

func (t *RenderTexture) Handle() uint32         { return t.textureID }
func (t *RenderTexture) Resolution() [3]float32 { return t.resolution }
func (t *RenderTexture) Destroy()               { gl.DeleteTextures(1, &t.textureID) }

// ImageTexture is a static texture uploaded from a decoded image.
type ImageTexture struct {
	textureID  uint32
	resolution [3]float32
}

// vflip vertically flips the provided RGBA image.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

func toRGBA(img image.Image) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

func NewImageTexture(img image.Image, sampler scenefile.Sampler) (*ImageTexture, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	rgba := toRGBA(img)
	if sampler.VFlip {
		rgba = vflip(rgba)
	}

	width := int32(rgba.Rect.Size().X)
	height := int32(rgba.Rect.Size().Y)

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	var internalFormat int32 = gl.RGBA8
	if sampler.SRGB {
		internalFormat = gl.SRGB8_ALPHA8
	}

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, getWrapMode(sampler.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, getWrapMode(sampler.Wrap))
	minFilter, magFilter := getFilterMode(sampler.Filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	if sampler.Filter == "mipmap" {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &ImageTexture{
		textureID:  textureID,
		resolution: [3]float32{float32(width), float32(height), 1.0},
	}, nil
}

func (t *ImageTexture) Handle() uint32         { return t.textureID }
func (t *ImageTexture) Resolution() [3]float32 { return t.resolution }
func (t *ImageTexture) Destroy()               { gl.DeleteTextures(1, &t.textureID) }
