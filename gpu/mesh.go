package gpu

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/goscene/scenefile"
)

// Mesh is an interleaved position, normal, uv vertex array drawn as
// triangles.
type Mesh struct {
	vao         uint32
	vbo         uint32
	vertexCount int32
}

func NewMesh(vertices []float32) (*Mesh, error) {
	if len(vertices) == 0 || len(vertices)%scenefile.VertexStride != 0 {
		return nil, fmt.Errorf("vertex data of %d floats is not a multiple of %d", len(vertices), scenefile.VertexStride)
	}
	m := &Mesh{vertexCount: int32(len(vertices) / scenefile.VertexStride)}
	stride := int32(scenefile.VertexStride * 4)

	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return m, nil
}

func (m *Mesh) Handle() uint32     { return m.vao }
func (m *Mesh) VertexCount() int32 { return m.vertexCount }

func (m *Mesh) Destroy() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}
