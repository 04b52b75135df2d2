// Package leveltest provides in-memory stand-ins for the GPU resources a
// level owns, for tests that run without a GL context.
package leveltest

import "sync/atomic"

var nextHandle atomic.Uint32

func handle() uint32 { return nextHandle.Add(1) }

// Texture is a fake 2D texture.
type Texture struct {
	ID        uint32
	W, H      int
	Destroyed bool
}

func NewTexture(w, h int) *Texture { return &Texture{ID: handle(), W: w, H: h} }

func (t *Texture) Handle() uint32 { return t.ID }
func (t *Texture) Resolution() [3]float32 {
	return [3]float32{float32(t.W), float32(t.H), 1}
}
func (t *Texture) Destroy() { t.Destroyed = true }

// Mesh is a fake static mesh.
type Mesh struct {
	ID        uint32
	Vertices  int32
	Destroyed bool
}

func NewMesh(vertices int32) *Mesh { return &Mesh{ID: handle(), Vertices: vertices} }

func (m *Mesh) Handle() uint32     { return m.ID }
func (m *Mesh) VertexCount() int32 { return m.Vertices }
func (m *Mesh) Destroy()           { m.Destroyed = true }

// Buffer is a fake data buffer.
type Buffer struct {
	ID        uint32
	Bytes     int
	Destroyed bool
}

func NewBuffer(size int) *Buffer { return &Buffer{ID: handle(), Bytes: size} }

func (b *Buffer) Handle() uint32 { return b.ID }
func (b *Buffer) Size() int      { return b.Bytes }
func (b *Buffer) Destroy()       { b.Destroyed = true }

// Shader is a fake linked program.
type Shader struct {
	ID        uint32
	Vertex    string
	Fragment  string
	Destroyed bool
}

func NewShader() *Shader { return &Shader{ID: handle()} }

func (s *Shader) Handle() uint32 { return s.ID }
func (s *Shader) Destroy()       { s.Destroyed = true }
