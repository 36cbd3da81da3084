package attach

import (
	"figure-assembler/internal/mathutil"
)

// Attachment binds a mesh resource to a bone. When ChildName is set, a
// synthetic child frame is created under ParentBone at ChildOffset and
// the mesh binds to that child instead of a declared bone.
type Attachment struct {
	AttachBone  string         `json:"attach_bone"`
	ResourceID  string         `json:"resource_id"`
	ChildName   string         `json:"child_name,omitempty"`
	ParentBone  string         `json:"parent_bone,omitempty"`
	ChildOffset *mathutil.Vec3 `json:"child_offset,omitempty"`
}

// Node returns the frame the attached mesh is positioned by: the
// synthetic child when one is declared, the attach bone otherwise.
func (a Attachment) Node() string {
	if a.ChildName != "" {
		return a.ChildName
	}
	return a.AttachBone
}

// VertexPair carries the two candidate positions authored for one
// connector vertex. Pos2 (post-transform) is placed first; Pos1 is the
// fallback when the placed point fails to snap onto body geometry.
type VertexPair struct {
	Pos1 mathutil.Vec3 `json:"pos1"`
	Pos2 mathutil.Vec3 `json:"pos2"`
}

// DynamicMesh is soft geometry declared across two or more bones,
// bridging rigid body parts at joints. It exists only between parsing
// and the per-bone split.
type DynamicMesh struct {
	Source        string       `json:"source"` // block label, used for deduplication and diagnostics
	Vertices      []VertexPair `json:"vertices"`
	VertexBones   []string     `json:"vertex_bones"`
	UVs           [][2]float64 `json:"uvs,omitempty"` // aligned with Vertices when present
	Faces         [][3]int     `json:"faces"`
	FaceMaterials []int        `json:"face_materials"`
	Materials     []string     `json:"materials,omitempty"` // raw material rows, interpreted downstream
}
