package dynvis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figure-assembler/internal/attach"
	"figure-assembler/internal/diag"
	"figure-assembler/internal/mathutil"
	"figure-assembler/internal/mesh"
)

// twoBoneConnector builds a quad bridging body (verts 0,1) and waist
// (verts 2,3): one face majority-body, one majority-waist.
func twoBoneConnector() *attach.DynamicMesh {
	return &attach.DynamicMesh{
		Source: "body_vp",
		Vertices: []attach.VertexPair{
			{Pos1: mathutil.Vec3{0, 0, 0}, Pos2: mathutil.Vec3{0, 0, 0}},
			{Pos1: mathutil.Vec3{1, 0, 0}, Pos2: mathutil.Vec3{1, 0, 0}},
			{Pos1: mathutil.Vec3{0, 1, 0}, Pos2: mathutil.Vec3{0, 1, 0}},
			{Pos1: mathutil.Vec3{1, 1, 0}, Pos2: mathutil.Vec3{1, 1, 0}},
		},
		VertexBones:   []string{"body", "body", "waist", "waist"},
		Faces:         [][3]int{{0, 1, 2}, {1, 3, 2}},
		FaceMaterials: []int{0, 0},
	}
}

func TestSplitPartition(t *testing.T) {
	m := twoBoneConnector()
	world := map[string]mathutil.Vec3{"body": {}, "waist": {}}

	subs := Split(m, world, &mesh.Pool{}, Options{}, diag.Discard)

	require.Len(t, subs, 2)
	assert.Equal(t, "body", subs[0].Bone, "bone order follows first appearance")
	assert.Equal(t, "waist", subs[1].Bone)

	// Every face lands in exactly one submesh.
	total := 0
	for _, s := range subs {
		total += len(s.Faces)
		assert.Equal(t, "body_vp", s.Source)
		assert.Len(t, s.FaceMaterials, len(s.Faces))
	}
	assert.Equal(t, len(m.Faces), total)
}

func TestSplitClonesForeignVertices(t *testing.T) {
	m := twoBoneConnector()
	world := map[string]mathutil.Vec3{"body": {}, "waist": {}}

	subs := Split(m, world, &mesh.Pool{}, Options{}, diag.Discard)

	// Face {0,1,2} is majority-body but borrows waist vertex 2; the body
	// submesh clones it so its faces stay self-contained.
	body := subs[0]
	require.Len(t, body.Faces, 1)
	assert.Len(t, body.Vertices, 3)
	for _, f := range body.Faces {
		for _, v := range f {
			assert.Less(t, v, len(body.Vertices))
			assert.GreaterOrEqual(t, v, 0)
		}
	}
}

func TestSplitPlacesByOwnBoneWorld(t *testing.T) {
	m := &attach.DynamicMesh{
		Source: "x_vp",
		Vertices: []attach.VertexPair{
			{Pos2: mathutil.Vec3{1, 0, 0}},
			{Pos2: mathutil.Vec3{2, 0, 0}},
			{Pos2: mathutil.Vec3{3, 0, 0}},
		},
		VertexBones:   []string{"body", "body", "body"},
		Faces:         [][3]int{{0, 1, 2}},
		FaceMaterials: []int{0},
	}
	world := map[string]mathutil.Vec3{"body": {0, 10, 0}}

	subs := Split(m, world, &mesh.Pool{}, Options{}, diag.Discard)

	require.Len(t, subs, 1)
	assert.Equal(t, mathutil.Vec3{1, 10, 0}, subs[0].Vertices[0], "pos2 offsets by the owning bone's world position")
}

func TestSplitSnapsWithinThreshold(t *testing.T) {
	m := &attach.DynamicMesh{
		Source: "x_vp",
		Vertices: []attach.VertexPair{
			{Pos1: mathutil.Vec3{0, 0, 0}, Pos2: mathutil.Vec3{0, 0, 0}},
			{Pos1: mathutil.Vec3{1, 0, 0}, Pos2: mathutil.Vec3{1, 0, 0}},
			{Pos1: mathutil.Vec3{0, 1, 0}, Pos2: mathutil.Vec3{0, 1, 0}},
		},
		VertexBones:   []string{"body", "body", "body"},
		Faces:         [][3]int{{0, 1, 2}},
		FaceMaterials: []int{0},
	}
	world := map[string]mathutil.Vec3{"body": {}}

	pool := &mesh.Pool{}
	pool.Add([]mathutil.Vec3{{0.1, 0, 0}, {50, 50, 50}})

	subs := Split(m, world, pool, Options{SnapThreshold: 0.5}, diag.Discard)

	require.Len(t, subs, 1)
	assert.Equal(t, mathutil.Vec3{0.1, 0, 0}, subs[0].Vertices[0], "vertex within threshold pulls onto the body")
	assert.Equal(t, mathutil.Vec3{1, 0, 0}, subs[0].Vertices[1], "vertex beyond threshold stays put")
}

func TestSplitSnapIdempotent(t *testing.T) {
	m := &attach.DynamicMesh{
		Source: "x_vp",
		Vertices: []attach.VertexPair{
			{Pos1: mathutil.Vec3{0.1, 0, 0}, Pos2: mathutil.Vec3{0.1, 0, 0}},
			{Pos1: mathutil.Vec3{1, 0, 0}, Pos2: mathutil.Vec3{1, 0, 0}},
			{Pos1: mathutil.Vec3{0, 1, 0}, Pos2: mathutil.Vec3{0, 1, 0}},
		},
		VertexBones:   []string{"body", "body", "body"},
		Faces:         [][3]int{{0, 1, 2}},
		FaceMaterials: []int{0},
	}
	world := map[string]mathutil.Vec3{"body": {}}
	pool := &mesh.Pool{}
	pool.Add([]mathutil.Vec3{{0.1, 0, 0}})

	opts := Options{SnapThreshold: 0.5}
	first := Split(m, world, pool, opts, diag.Discard)
	second := Split(m, world, pool, opts, diag.Discard)
	assert.Equal(t, first, second)
	assert.Equal(t, mathutil.Vec3{0.1, 0, 0}, first[0].Vertices[0], "already-coincident vertex stays fixed")
}

func TestSplitPos1Fallback(t *testing.T) {
	m := &attach.DynamicMesh{
		Source: "x_vp",
		Vertices: []attach.VertexPair{
			{Pos1: mathutil.Vec3{5, 0, 0}, Pos2: mathutil.Vec3{90, 0, 0}},
			{Pos1: mathutil.Vec3{6, 0, 0}, Pos2: mathutil.Vec3{91, 0, 0}},
			{Pos1: mathutil.Vec3{5, 1, 0}, Pos2: mathutil.Vec3{90, 1, 0}},
		},
		VertexBones:   []string{"body", "body", "body"},
		Faces:         [][3]int{{0, 1, 2}},
		FaceMaterials: []int{0},
	}
	world := map[string]mathutil.Vec3{"body": {}}
	pool := &mesh.Pool{}
	pool.Add([]mathutil.Vec3{{5.1, 0, 0}})

	subs := Split(m, world, pool, Options{SnapThreshold: 0.5}, diag.Discard)

	require.Len(t, subs, 1)
	assert.Equal(t, mathutil.Vec3{5.1, 0, 0}, subs[0].Vertices[0], "pos1 snaps when pos2 is out of range")
	assert.Equal(t, mathutil.Vec3{91, 0, 0}, subs[0].Vertices[1], "neither position in range keeps the pos2 candidate")
}

func TestSplitEmptyBoneGroup(t *testing.T) {
	// The waist owns one lone vertex; no face is majority-waist.
	m := &attach.DynamicMesh{
		Source: "x_vp",
		Vertices: []attach.VertexPair{
			{Pos2: mathutil.Vec3{0, 0, 0}},
			{Pos2: mathutil.Vec3{1, 0, 0}},
			{Pos2: mathutil.Vec3{0, 1, 0}},
			{Pos2: mathutil.Vec3{9, 9, 9}},
		},
		VertexBones:   []string{"body", "body", "body", "waist"},
		Faces:         [][3]int{{0, 1, 2}},
		FaceMaterials: []int{0},
	}
	world := map[string]mathutil.Vec3{"body": {}, "waist": {}}

	collector := diag.NewCollector()
	subs := Split(m, world, &mesh.Pool{}, Options{}, collector)

	require.Len(t, subs, 1)
	assert.Equal(t, "body", subs[0].Bone)
	assert.Len(t, collector.ByKind(diag.EmptyConnectorBoneGroup), 1)
}

func TestSplitThreeOwnerFaceDropped(t *testing.T) {
	m := &attach.DynamicMesh{
		Source: "x_vp",
		Vertices: []attach.VertexPair{
			{Pos2: mathutil.Vec3{0, 0, 0}},
			{Pos2: mathutil.Vec3{1, 0, 0}},
			{Pos2: mathutil.Vec3{0, 1, 0}},
		},
		VertexBones:   []string{"body", "waist", "l_leg"},
		Faces:         [][3]int{{0, 1, 2}},
		FaceMaterials: []int{0},
	}
	world := map[string]mathutil.Vec3{"body": {}, "waist": {}, "l_leg": {}}

	collector := diag.NewCollector()
	subs := Split(m, world, &mesh.Pool{}, Options{}, collector)

	assert.Empty(t, subs, "a face with three different owners belongs nowhere")
	assert.Len(t, collector.ByKind(diag.EmptyConnectorBoneGroup), 3)
}

func TestSplitOutOfRangeFace(t *testing.T) {
	m := &attach.DynamicMesh{
		Source: "x_vp",
		Vertices: []attach.VertexPair{
			{Pos2: mathutil.Vec3{0, 0, 0}},
			{Pos2: mathutil.Vec3{1, 0, 0}},
			{Pos2: mathutil.Vec3{0, 1, 0}},
		},
		VertexBones:   []string{"body", "body", "body"},
		Faces:         [][3]int{{0, 1, 9}, {0, 1, 2}},
		FaceMaterials: []int{0, 0},
	}
	world := map[string]mathutil.Vec3{"body": {}}

	collector := diag.NewCollector()
	subs := Split(m, world, &mesh.Pool{}, Options{}, collector)

	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Faces, 1, "out-of-range face drops, valid face survives")
	assert.Len(t, collector.ByKind(diag.MalformedLine), 1)
}
