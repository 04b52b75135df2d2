package gpu

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/goscene/level"
)

// Framebuffer is the off-screen target every pass renders through. Color
// attachments are swapped per pass; the depth renderbuffer follows the size
// of the first attachment.
type Framebuffer struct {
	fbo               uint32
	depthRenderbuffer uint32
	depthWidth        int
	depthHeight       int
	attached          int
	maxAttachments    int
}

func NewFramebuffer() *Framebuffer {
	f := &Framebuffer{}
	gl.GenFramebuffers(1, &f.fbo)
	gl.GenRenderbuffers(1, &f.depthRenderbuffer)
	var maxDraw int32
	gl.GetIntegerv(gl.MAX_DRAW_BUFFERS, &maxDraw)
	f.maxAttachments = int(maxDraw)
	return f
}

func (f *Framebuffer) ensureDepth(width, height int) {
	if width == f.depthWidth && height == f.depthHeight {
		return
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, f.depthRenderbuffer)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	f.depthWidth, f.depthHeight = width, height
}

// Bind attaches targets in order and makes the framebuffer current for
// drawing. It returns the size of the first target.
func (f *Framebuffer) Bind(targets []level.Texture) (int, int, error) {
	if len(targets) == 0 {
		return 0, 0, fmt.Errorf("no color attachments")
	}
	if len(targets) > f.maxAttachments {
		return 0, 0, fmt.Errorf("%d color attachments exceed the limit of %d", len(targets), f.maxAttachments)
	}
	res := targets[0].Resolution()
	width, height := int(res[0]), int(res[1])

	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
	drawBuffers := make([]uint32, len(targets))
	for i, t := range targets {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(i), gl.TEXTURE_2D, t.Handle(), 0)
		drawBuffers[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	for i := len(targets); i < f.attached; i++ {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(i), gl.TEXTURE_2D, 0, 0)
	}
	f.attached = len(targets)
	gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])

	f.ensureDepth(width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, f.depthRenderbuffer)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return 0, 0, fmt.Errorf("offscreen fbo is not complete: 0x%x", status)
	}
	return width, height, nil
}

func (f *Framebuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadPixels reads tex back as RGBA8 through the framebuffer.
func (f *Framebuffer) ReadPixels(tex level.Texture) ([]byte, error) {
	res := tex.Resolution()
	width, height := int(res[0]), int(res[1])
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, f.fbo)
	defer gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex.Handle(), 0)
	if status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("read fbo is not complete: 0x%x", status)
	}
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, nil
}

func (f *Framebuffer) Destroy() {
	gl.DeleteFramebuffers(1, &f.fbo)
	gl.DeleteRenderbuffers(1, &f.depthRenderbuffer)
}
