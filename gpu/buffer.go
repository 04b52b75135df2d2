package gpu

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Buffer is a uniform buffer object of fixed size.
type Buffer struct {
	ubo  uint32
	size int
}

func NewBuffer(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer size %d must be positive", size)
	}
	b := &Buffer{size: size}
	gl.GenBuffers(1, &b.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return b, nil
}

// Update replaces the buffer contents starting at offset.
func (b *Buffer) Update(offset int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("write of %d bytes at %d overflows buffer of %d", len(data), offset, b.size)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return nil
}

func (b *Buffer) Handle() uint32 { return b.ubo }
func (b *Buffer) Size() int      { return b.size }
func (b *Buffer) Destroy()       { gl.DeleteBuffers(1, &b.ubo) }
