// Package dynvis splits connector meshes declared across multiple bones
// into per-bone submeshes and snaps their vertices onto already-placed
// body geometry so the joint seams disappear.
package dynvis

import (
	"fmt"

	"figure-assembler/internal/attach"
	"figure-assembler/internal/diag"
	"figure-assembler/internal/mathutil"
	"figure-assembler/internal/mesh"
)

// DefaultSnapThreshold is the absolute snap distance in world units.
// Deliberately generous: authoring data and final body topology rarely
// align exactly.
const DefaultSnapThreshold = 1.0

// Options controls connector placement.
type Options struct {
	// SnapThreshold is the maximum distance at which a connector vertex
	// is pulled onto the nearest body vertex. Values <= 0 select
	// DefaultSnapThreshold.
	SnapThreshold float64
}

// Submesh is the per-bone share of a split connector, tagged with the
// owning bone for later skin binding. Face indices are local to its own
// vertex list.
type Submesh struct {
	Bone          string          `json:"bone"`
	Source        string          `json:"source"`
	Vertices      []mathutil.Vec3 `json:"vertices"`
	UVs           [][2]float64    `json:"uvs,omitempty"`
	Faces         [][3]int        `json:"faces"`
	FaceMaterials []int           `json:"face_materials"`
}

// Split partitions one connector mesh by vertex-owning bone, assigns
// faces under the majority rule, then places and snaps each bone group's
// vertices. Each connector moves through partition, placement, and emit
// exactly once.
func Split(m *attach.DynamicMesh, world map[string]mathutil.Vec3, pool *mesh.Pool, opts Options, sink diag.Sink) []Submesh {
	threshold := opts.SnapThreshold
	if threshold <= 0 {
		threshold = DefaultSnapThreshold
	}

	// Bone order follows first appearance in the vertex list so output
	// never depends on map iteration.
	var boneOrder []string
	seen := make(map[string]bool)
	for _, b := range m.VertexBones {
		if !seen[b] {
			seen[b] = true
			boneOrder = append(boneOrder, b)
		}
	}

	// A face belongs to bone B when at least 2 of its 3 vertices are
	// owned by B; the majority rule lets a connector straddling exactly
	// two bones contribute a sensible face to each side. A face with
	// three different owners belongs nowhere.
	owner := make([]string, len(m.Faces))
	for fi, f := range m.Faces {
		if !validFace(f, len(m.Vertices)) {
			sink.Record(diag.Event{
				Kind:   diag.MalformedLine,
				Source: m.Source,
				Detail: fmt.Sprintf("face %d references out-of-range vertex, dropping", fi),
			})
			continue
		}
		owner[fi] = majorityBone(f, m.VertexBones)
	}

	var out []Submesh
	for _, bone := range boneOrder {
		g, ok := buildGroup(m, bone, owner)
		if !ok {
			// Connectors legitimately may not contribute geometry to
			// every bone they reference.
			sink.Record(diag.Event{
				Kind:   diag.EmptyConnectorBoneGroup,
				Source: m.Source,
				Detail: fmt.Sprintf("bone %s: no surviving faces after majority filter", bone),
			})
			continue
		}
		placeGroup(&g, m, world, pool, threshold)
		out = append(out, g.sub)
	}
	return out
}

func validFace(f [3]int, n int) bool {
	for _, v := range f {
		if v < 0 || v >= n {
			return false
		}
	}
	return true
}

func majorityBone(f [3]int, vertexBones []string) string {
	a, b, c := vertexBones[f[0]], vertexBones[f[1]], vertexBones[f[2]]
	switch {
	case a == b || a == c:
		return a
	case b == c:
		return b
	}
	return ""
}

// groupState carries the original vertex index of every submesh vertex
// so placement can look up each vertex's own bone and authored positions.
type groupState struct {
	sub  Submesh
	orig []int
}

func buildGroup(m *attach.DynamicMesh, bone string, owner []string) (groupState, bool) {
	g := groupState{sub: Submesh{Bone: bone, Source: m.Source}}
	remap := make(map[int]int)

	for i, vb := range m.VertexBones {
		if vb == bone {
			remap[i] = len(g.orig)
			g.orig = append(g.orig, i)
		}
	}

	for fi, f := range m.Faces {
		if owner[fi] != bone {
			continue
		}
		var nf [3]int
		for k, v := range f {
			ni, ok := remap[v]
			if !ok {
				// Clone the foreign vertex so the submesh stays a
				// closed, self-contained triangle list.
				ni = len(g.orig)
				remap[v] = ni
				g.orig = append(g.orig, v)
			}
			nf[k] = ni
		}
		g.sub.Faces = append(g.sub.Faces, nf)
		if fi < len(m.FaceMaterials) {
			g.sub.FaceMaterials = append(g.sub.FaceMaterials, m.FaceMaterials[fi])
		} else {
			g.sub.FaceMaterials = append(g.sub.FaceMaterials, 0)
		}
	}

	if len(g.sub.Faces) == 0 {
		return groupState{}, false
	}

	g.sub.Vertices = make([]mathutil.Vec3, len(g.orig))
	if m.UVs != nil {
		g.sub.UVs = make([][2]float64, len(g.orig))
		for ni, oi := range g.orig {
			g.sub.UVs[ni] = m.UVs[oi]
		}
	}
	return g, true
}

// placeGroup positions each vertex at pos2 offset by its own bone's
// world position, then pulls it onto the nearest body vertex within the
// snap threshold. When the placed point fails to snap, pos1 gets one
// try; if that fails too the pos2 candidate stays unsnapped, since a
// floating vertex beats one pulled onto an unrelated part of the model.
func placeGroup(g *groupState, m *attach.DynamicMesh, world map[string]mathutil.Vec3, pool *mesh.Pool, threshold float64) {
	for ni, oi := range g.orig {
		bonePos := world[m.VertexBones[oi]]
		candidate := m.Vertices[oi].Pos2.Add(bonePos)
		if snapped, ok := snap(candidate, pool, threshold); ok {
			g.sub.Vertices[ni] = snapped
			continue
		}
		fallback := m.Vertices[oi].Pos1.Add(bonePos)
		if snapped, ok := snap(fallback, pool, threshold); ok {
			g.sub.Vertices[ni] = snapped
			continue
		}
		g.sub.Vertices[ni] = candidate
	}
}

func snap(candidate mathutil.Vec3, pool *mesh.Pool, threshold float64) (mathutil.Vec3, bool) {
	nearest, dist, ok := pool.Nearest(candidate)
	if !ok || dist > threshold {
		return mathutil.Vec3{}, false
	}
	return nearest, true
}
