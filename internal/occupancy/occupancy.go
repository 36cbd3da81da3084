// Package occupancy applies the priority-override algorithm that decides,
// per anatomical slot, which skin or clothing layer contributes geometry
// to the assembled figure.
package occupancy

import (
	"strconv"
	"strings"

	"figure-assembler/internal/attach"
)

// NumSlots is the number of anatomical slots in an occupancy vector.
// The order is a descriptor-format contract.
const NumSlots = 7

// SlotNames maps slot indices to their anatomical regions.
var SlotNames = [NumSlots]string{"head", "body", "arms", "hands", "waist", "legs", "feet"}

// Vector declares which anatomical slots a layer claims and with what
// priority. Zero means "does not claim this slot".
type Vector [NumSlots]int

// ParseVector parses "0,3,3,0,0,0,0" into a vector. Malformed input
// yields the zero vector, matching the format's lenient reader.
func ParseVector(s string) Vector {
	var v Vector
	parts := strings.Split(s, ",")
	for i := 0; i < NumSlots && i < len(parts); i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Vector{}
		}
		v[i] = n
	}
	return v
}

// IsZero reports whether the vector claims no slot at all. Zero-occupancy
// layers (non-humanoid rigs) are routed to a synthetic slot so they are
// never silently dropped.
func (v Vector) IsZero() bool {
	for _, n := range v {
		if n > 0 {
			return false
		}
	}
	return true
}

// Layer is one skin or clothing entry before slot resolution.
type Layer struct {
	Occupancy   Vector
	Source      string // diagnostic label, also the dedup key
	Skin        bool
	Attachments []attach.Attachment
	Mesh        *attach.DynamicMesh
}
