package scenefile

// QuadVertices is a full-screen quad in clip space as two triangles.
func QuadVertices() []float32 {
	return []float32{
		-1, 1, 0, 0, 0, 1, 0, 1,
		-1, -1, 0, 0, 0, 1, 0, 0,
		1, -1, 0, 0, 0, 1, 1, 0,
		-1, 1, 0, 0, 0, 1, 0, 1,
		1, -1, 0, 0, 0, 1, 1, 0,
		1, 1, 0, 0, 0, 1, 1, 1,
	}
}

// CubeVertices is a unit cube centred on the origin, 36 vertices with
// outward normals.
func CubeVertices() []float32 {
	faces := []struct {
		normal [3]float32
		u, v   [3]float32
	}{
		{normal: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
		{normal: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	}
	corners := [6][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, -1}, {1, 1}, {-1, 1}}

	out := make([]float32, 0, 36*VertexStride)
	for _, f := range faces {
		for _, c := range corners {
			for i := 0; i < 3; i++ {
				out = append(out, 0.5*(f.normal[i]+c[0]*f.u[i]+c[1]*f.v[i]))
			}
			out = append(out, f.normal[0], f.normal[1], f.normal[2])
			out = append(out, (c[0]+1)/2, (c[1]+1)/2)
		}
	}
	return out
}
