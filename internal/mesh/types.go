// Package mesh defines the contract to the external mesh-file loader.
// Tokenizing the actual mesh files is out of scope for this core; the
// scene-assembly side plugs in a real loader, and everything here treats
// "not found" as a skippable condition rather than a failure.
package mesh

import (
	"errors"

	"figure-assembler/internal/mathutil"
)

// ErrNotFound is returned by loaders when a resource has no mesh file.
var ErrNotFound = errors.New("mesh: resource not found")

// Material describes one surface of a loaded mesh. Texture decoding and
// PBR construction happen downstream; only the references travel here.
type Material struct {
	Name    string     `json:"name"`
	Diffuse [4]float64 `json:"diffuse"`
	Texture string     `json:"texture,omitempty"`
}

// Mesh is the loader's output for one resource.
type Mesh struct {
	Vertices      []mathutil.Vec3 `json:"vertices"`
	Faces         [][3]int        `json:"faces"`
	FaceMaterials []int           `json:"face_materials"`
	UVs           [][2]float64    `json:"uvs,omitempty"`
	Materials     []Material      `json:"materials"`
}

// Loader resolves a dotted resource identifier to mesh data.
type Loader interface {
	Load(resourceID string) (*Mesh, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(resourceID string) (*Mesh, error)

func (f LoaderFunc) Load(resourceID string) (*Mesh, error) {
	return f(resourceID)
}
