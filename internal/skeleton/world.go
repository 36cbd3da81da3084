package skeleton

import (
	"fmt"
	"sort"

	"figure-assembler/internal/attach"
	"figure-assembler/internal/diag"
	"figure-assembler/internal/mathutil"
)

// BuildWorld composes bone-local translations through the tree into
// world-space positions, one entry per bone and per synthetic child
// frame. Only translation accumulates; rotation is intentionally not
// composed here and is left to the scene builder.
//
// A synthetic child frame's offset is scaled component-wise by its
// parent bone's scale before accumulation: non-uniform parent scaling
// moves the child, and omitting this misplaces skirt and hair frames.
func BuildWorld(bones map[string]Bone, extra []attach.Attachment, sink diag.Sink) map[string]mathutil.Vec3 {
	local := make(map[string]mathutil.Vec3, len(bones)+len(extra))
	parent := make(map[string]string, len(bones)+len(extra))
	for name, b := range bones {
		local[name] = b.Translation
		parent[name] = b.Parent
	}

	for _, att := range extra {
		if att.ChildName == "" || att.ParentBone == "" || att.ChildOffset == nil {
			continue
		}
		offset := *att.ChildOffset
		if pb, ok := bones[att.ParentBone]; ok {
			offset = offset.MulComp(pb.Scale)
		}
		local[att.ChildName] = offset
		parent[att.ChildName] = att.ParentBone
	}

	world := make(map[string]mathutil.Vec3, len(local))

	var walk func(n string, visiting map[string]bool) mathutil.Vec3
	walk = func(n string, visiting map[string]bool) mathutil.Vec3 {
		if w, ok := world[n]; ok {
			return w
		}
		t := local[n]
		p := parent[n]
		if p == "" {
			world[n] = t
			return t
		}
		if _, known := local[p]; !known {
			sink.Record(diag.Event{
				Kind:   diag.UnknownParentBone,
				Source: n,
				Detail: fmt.Sprintf("parent %q not in bone tree, treating as root", p),
			})
			world[n] = t
			return t
		}
		if visiting[n] {
			sink.Record(diag.Event{
				Kind:   diag.BoneCycle,
				Source: n,
				Detail: "ancestor chain revisits this bone, breaking cycle at its local translation",
			})
			world[n] = t
			return t
		}
		visiting[n] = true
		pw := walk(p, visiting)
		delete(visiting, n)
		if w, ok := world[n]; ok {
			// The cycle broke at this node during recursion.
			return w
		}
		w := pw.Add(t)
		world[n] = w
		return w
	}

	// Sorted traversal keeps cycle-break points (and their diagnostics)
	// independent of map iteration order.
	names := make([]string, 0, len(local))
	for n := range local {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		walk(n, make(map[string]bool))
	}
	return world
}
