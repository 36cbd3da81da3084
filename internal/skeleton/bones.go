package skeleton

import (
	"fmt"
	"strings"

	"figure-assembler/internal/descriptor"
	"figure-assembler/internal/diag"
	"figure-assembler/internal/mathutil"
)

// Bone holds one node of the bone tree, local to its parent.
// Immutable after parse.
type Bone struct {
	Name        string        `json:"name"`
	Parent      string        `json:"parent,omitempty"` // empty = root
	Translation mathutil.Vec3 `json:"translation"`
	Rotation    mathutil.Vec3 `json:"rotation"` // Euler, carried for the scene builder; not composed here
	Scale       mathutil.Vec3 `json:"scale"`
}

// ParseFrame reads the <frame> block into named bones.
// Line grammar: name:parent:(tx,ty,tz)[:(rx,ry,rz)[:flags:(sx,sy,sz)]].
// Rotation and scale are optional; lines that fail the minimum
// name:parent:translation shape are skipped with a diagnostic.
func ParseFrame(d *descriptor.Descriptor, sink diag.Sink) map[string]Bone {
	bones := make(map[string]Bone)
	for _, raw := range d.Block("frame") {
		s := strings.TrimSpace(raw)
		if s == "" || strings.HasPrefix(s, "class:") {
			continue
		}
		parts := strings.Split(s, ":")
		if len(parts) < 3 {
			sink.Record(diag.Event{
				Kind:   diag.MalformedLine,
				Source: d.Path + "#frame",
				Detail: fmt.Sprintf("bone line %q has %d fields, want at least 3", s, len(parts)),
			})
			continue
		}

		name := strings.TrimSpace(parts[0])
		parent := strings.TrimSpace(parts[1])

		translation, err := descriptor.Tuple3(parts[2])
		if err != nil {
			sink.Record(diag.Event{
				Kind:   diag.MalformedLine,
				Source: d.Path + "#frame",
				Detail: fmt.Sprintf("bone %s: %v, defaulting translation to zero", name, err),
			})
		}

		rotation := mathutil.Vec3{}
		if len(parts) > 3 && strings.TrimSpace(parts[3]) != "" {
			if r, err := descriptor.Tuple3(parts[3]); err == nil {
				rotation = r
			}
		}

		scale := mathutil.Vec3{1, 1, 1}
		if len(parts) > 5 && strings.TrimSpace(parts[5]) != "" {
			if sc, err := descriptor.Tuple3(parts[5]); err == nil {
				scale = sc
			}
		}

		bones[name] = Bone{
			Name:        name,
			Parent:      parent,
			Translation: translation,
			Rotation:    rotation,
			Scale:       scale,
		}
	}
	return bones
}
