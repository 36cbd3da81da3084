package attach

// MergeDynamicMeshes concatenates two connector meshes, offsetting the
// second mesh's face indices by the first's vertex count and its face
// material indices by the first's material count. Used when bilateral
// skin parts coexist in one slot. Either argument may be nil.
func MergeDynamicMeshes(a, b *DynamicMesh) *DynamicMesh {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	m := &DynamicMesh{Source: a.Source}
	m.Vertices = append(append(m.Vertices, a.Vertices...), b.Vertices...)
	m.VertexBones = append(append(m.VertexBones, a.VertexBones...), b.VertexBones...)

	if a.UVs != nil || b.UVs != nil {
		m.UVs = make([][2]float64, 0, len(m.Vertices))
		m.UVs = append(m.UVs, padUVs(a.UVs, len(a.Vertices))...)
		m.UVs = append(m.UVs, padUVs(b.UVs, len(b.Vertices))...)
	}

	m.Faces = append(m.Faces, a.Faces...)
	vertOffset := len(a.Vertices)
	for _, f := range b.Faces {
		m.Faces = append(m.Faces, [3]int{f[0] + vertOffset, f[1] + vertOffset, f[2] + vertOffset})
	}

	m.Materials = append(append(m.Materials, a.Materials...), b.Materials...)
	m.FaceMaterials = append(m.FaceMaterials, a.FaceMaterials...)
	matOffset := len(a.Materials)
	for _, fm := range b.FaceMaterials {
		m.FaceMaterials = append(m.FaceMaterials, fm+matOffset)
	}
	return m
}

func padUVs(uvs [][2]float64, n int) [][2]float64 {
	if len(uvs) >= n {
		return uvs[:n]
	}
	out := make([][2]float64, n)
	copy(out, uvs)
	return out
}
