package level

// Texture is a GPU texture owned by the level.
type Texture interface {
	Handle() uint32
	// Resolution returns width, height and depth (1 for 2D textures).
	Resolution() [3]float32
	Destroy()
}

// Buffer is a GPU data buffer owned by the level.
type Buffer interface {
	Handle() uint32
	Size() int
	Destroy()
}

// StaticMesh is uploaded, immutable geometry.
type StaticMesh interface {
	Handle() uint32
	VertexCount() int32
	Destroy()
}

// Shader is a linked GPU program.
type Shader interface {
	Handle() uint32
	Destroy()
}
