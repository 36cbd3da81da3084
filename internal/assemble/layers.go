package assemble

import (
	"fmt"
	"strings"

	"figure-assembler/internal/attach"
	"figure-assembler/internal/descriptor"
	"figure-assembler/internal/diag"
	"figure-assembler/internal/occupancy"
)

// buildLayers collects every skin and clothing layer from the
// descriptor, skin first then clothing, both in declaration order.
//
// The second return value is the orphan-connector list: *_vp blocks that
// carry DynamicVisual geometry but are never referenced from
// <defaultcos>. Important joint connectors (leg-to-foot, for one) ship
// that way, so they contribute outside slot resolution.
func buildLayers(d *descriptor.Descriptor, res *attach.Resolver, sink diag.Sink) ([]occupancy.Layer, []*attach.DynamicMesh) {
	var layers []occupancy.Layer
	processed := make(map[string]bool)

	for _, entry := range attach.ParseSkinEntries(d) {
		atts, mesh := res.Resolve(entry.Identifier)
		if mesh != nil {
			processed[mesh.Source] = true
		}
		layers = append(layers, occupancy.Layer{
			Occupancy:   occupancy.ParseVector(entry.OccupancyRaw),
			Source:      entry.Identifier,
			Skin:        true,
			Attachments: atts,
			Mesh:        mesh,
		})
	}

	for _, full := range attach.ParseDefaultCos(d) {
		ci, ok := res.ResolveCostume(full)
		if !ok {
			continue
		}
		processed[ci.Source] = true
		layers = append(layers, occupancy.Layer{
			Occupancy:   occupancy.ParseVector(ci.OccupancyRaw),
			Source:      ci.Source,
			Attachments: ci.Attachments,
			Mesh:        ci.Mesh,
		})
	}

	var orphans []*attach.DynamicMesh
	for _, name := range d.Order {
		if !strings.HasSuffix(name, "_vp") || processed[name] {
			continue
		}
		if !hasDynamicVisual(d.Blocks[name]) {
			continue
		}
		mesh := attach.ParseDynamicVisual(d.Blocks[name], name)
		if mesh == nil {
			continue
		}
		sink.Record(diag.Event{
			Kind:   diag.OrphanConnector,
			Source: name,
			Detail: fmt.Sprintf("connector block not referenced by defaultcos, %d vertices", len(mesh.Vertices)),
		})
		orphans = append(orphans, mesh)
	}

	return layers, orphans
}

func hasDynamicVisual(lines []string) bool {
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "DynamicVisual:" {
			return true
		}
	}
	return false
}
