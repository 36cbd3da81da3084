package attach

import (
	"strconv"
	"strings"

	"figure-assembler/internal/descriptor"
)

// ParseDynamicVisual reads the DynamicVisual:, Material:, and FaceArray:
// sections of a block into a connector mesh. Returns nil when the block
// carries no usable geometry.
//
// Vertex rows are dispatched on colon count, mirroring the original
// format's parser:
//
//	bone:index                          (positions default to zero)
//	bone:index:(pos1):(pos2)
//	bone:index:(pos1):(pos2):flags
//	bone:index:(pos1):(pos2):(uv):flags
func ParseDynamicVisual(lines []string, source string) *DynamicMesh {
	m := &DynamicMesh{Source: source}
	hasUV := false

	mode := ""
	for _, raw := range lines {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		switch s {
		case "DynamicVisual:":
			mode = "vertices"
			continue
		case "Material:":
			mode = "material"
			continue
		case "FaceArray:":
			mode = "faces"
			continue
		}
		if strings.HasPrefix(s, "<") {
			break
		}

		switch mode {
		case "vertices":
			parseVertexRow(m, s, &hasUV)
		case "material":
			if strings.HasPrefix(s, "(") && strings.Contains(s, ")") {
				m.Materials = append(m.Materials, s)
			}
		case "faces":
			parseFaceRow(m, s)
		}
	}

	if len(m.Vertices) == 0 || len(m.Faces) == 0 {
		return nil
	}
	if !hasUV {
		m.UVs = nil
	}
	return m
}

func parseVertexRow(m *DynamicMesh, s string, hasUV *bool) {
	parts := strings.Split(s, ":")
	colons := len(parts) - 1

	bone := strings.TrimSpace(parts[0])
	if bone == "" {
		return
	}

	var pair VertexPair
	var uv [2]float64

	switch {
	case colons == 1:
		if _, err := strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return
		}
	case colons == 3 || colons == 4:
		// bone:index:pos1:pos2[:flags]
		if _, err := strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return
		}
		p1, err1 := descriptor.Tuple3(parts[2])
		p2, err2 := descriptor.Tuple3(parts[3])
		if err1 != nil || err2 != nil {
			return
		}
		pair = VertexPair{Pos1: p1, Pos2: p2}
	case colons >= 5:
		// bone:index:pos1:pos2:uv:flags
		if _, err := strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return
		}
		p1, err1 := descriptor.Tuple3(parts[2])
		p2, err2 := descriptor.Tuple3(parts[3])
		if err1 != nil || err2 != nil {
			return
		}
		pair = VertexPair{Pos1: p1, Pos2: p2}
		uv = descriptor.Tuple2(parts[4])
		*hasUV = true
	default:
		return
	}

	m.Vertices = append(m.Vertices, pair)
	m.VertexBones = append(m.VertexBones, bone)
	m.UVs = append(m.UVs, uv)
}

func parseFaceRow(m *DynamicMesh, s string) {
	// v1,v2,v3:material_index
	if !strings.Contains(s, ",") || !strings.Contains(s, ":") {
		return
	}
	facePart, matPart, _ := strings.Cut(s, ":")
	matIdx, err := strconv.Atoi(strings.TrimSpace(matPart))
	if err != nil {
		return
	}
	fields := strings.Split(facePart, ",")
	if len(fields) != 3 {
		return
	}
	var face [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return
		}
		face[i] = v
	}
	m.Faces = append(m.Faces, face)
	m.FaceMaterials = append(m.FaceMaterials, matIdx)
}
