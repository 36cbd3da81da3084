package occupancy

import (
	"fmt"

	"figure-assembler/internal/attach"
	"figure-assembler/internal/diag"
	"figure-assembler/internal/registry"
)

// Resolved is the outcome of folding all layers: the winning attachment
// set and the surviving connector meshes, deduplicated by source.
type Resolved struct {
	Attachments []attach.Attachment
	Connectors  []*attach.DynamicMesh
}

// winner is the current holder of one slot. It owns a private copy of
// the layer so a bilateral merge never mutates the caller's input.
type winner struct {
	value int
	layer Layer
}

// Resolve folds skin and clothing layers, in input order, over the fixed
// slot range. Per claimed slot: a strictly higher occupancy value
// replaces the current winner outright (attachments and connector mesh
// both); an equal value loses to the first-seen layer, except bilateral
// skin parts, which merge so both sides coexist. Zero-occupancy layers
// contend for a single synthetic slot ahead of slot 0.
//
// Resolution depends only on occupancy values and layer order, never on
// map iteration order.
func Resolve(layers []Layer, reg *registry.Registry, sink diag.Sink) Resolved {
	// Index 0 is the synthetic slot for zero-occupancy layers; anatomical
	// slot k lives at index k+1.
	var slots [NumSlots + 1]*winner

	for _, layer := range layers {
		if layer.Occupancy.IsZero() {
			claim(&slots, 0, 1, layer, reg, sink)
			continue
		}
		for slot, value := range layer.Occupancy {
			if value > 0 {
				claim(&slots, slot+1, value, layer, reg, sink)
			}
		}
	}

	var res Resolved
	seenAttachments := make(map[string]bool)
	seenConnectors := make(map[string]bool)
	for idx := 0; idx <= NumSlots; idx++ {
		w := slots[idx]
		if w == nil {
			continue
		}
		if !seenAttachments[w.layer.Source] {
			res.Attachments = append(res.Attachments, w.layer.Attachments...)
			seenAttachments[w.layer.Source] = true
		}
		if w.layer.Mesh != nil && !seenConnectors[w.layer.Mesh.Source] {
			res.Connectors = append(res.Connectors, w.layer.Mesh)
			seenConnectors[w.layer.Mesh.Source] = true
		}
	}
	return res
}

func claim(slots *[NumSlots + 1]*winner, idx, value int, layer Layer, reg *registry.Registry, sink diag.Sink) {
	cur := slots[idx]
	if cur == nil {
		slots[idx] = &winner{value: value, layer: layer}
		return
	}

	switch {
	case value > cur.value:
		slots[idx] = &winner{value: value, layer: layer}
	case value == cur.value:
		if layer.Skin && cur.layer.Skin && reg.IsBilateralPair(cur.layer.Source, layer.Source) {
			// Left and right halves of the same part must coexist.
			cur.layer.Attachments = append(cloneAttachments(cur.layer.Attachments), layer.Attachments...)
			cur.layer.Mesh = attach.MergeDynamicMeshes(cur.layer.Mesh, layer.Mesh)
			return
		}
		sink.Record(diag.Event{
			Kind:   diag.AmbiguousSlotTie,
			Source: layer.Source,
			Detail: fmt.Sprintf("slot %s: loses tie at value %d to earlier layer %s", slotName(idx), value, cur.layer.Source),
		})
	}
}

func cloneAttachments(atts []attach.Attachment) []attach.Attachment {
	out := make([]attach.Attachment, len(atts))
	copy(out, atts)
	return out
}

func slotName(idx int) string {
	if idx == 0 {
		return "default"
	}
	return SlotNames[idx-1]
}
