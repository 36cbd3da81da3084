// Package assemble runs the full descriptor-to-figure pipeline: block
// parsing, slot resolution, world transforms, and connector splitting.
// The Result it produces is the language-agnostic handoff to an
// external scene builder.
package assemble

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"figure-assembler/internal/attach"
	"figure-assembler/internal/descriptor"
	"figure-assembler/internal/diag"
	"figure-assembler/internal/dynvis"
	"figure-assembler/internal/mathutil"
	"figure-assembler/internal/mesh"
	"figure-assembler/internal/occupancy"
	"figure-assembler/internal/registry"
	"figure-assembler/internal/skeleton"
)

// Options configures one character resolution.
type Options struct {
	// Registry supplies the name-classification rules; nil selects the
	// stock registry.
	Registry *registry.Registry
	// Loader resolves attachment resources to mesh data. When nil the
	// vertex pool stays empty and attachments pass through unverified.
	Loader mesh.Loader
	// SnapThreshold overrides the connector snap distance; <= 0 selects
	// the default. With SnapRelative it is read as a fraction of the
	// placed geometry's bounding-box diagonal instead of world units.
	SnapThreshold float64
	SnapRelative  bool
	// Sink receives diagnostics; nil discards them.
	Sink diag.Sink
}

// Result is the assembled figure: everything the scene builder needs to
// construct an armature and bind geometry.
type Result struct {
	Bones       map[string]skeleton.Bone `json:"bones"`
	World       map[string]mathutil.Vec3 `json:"world"`
	Attachments []attach.Attachment      `json:"attachments"`
	Connectors  []dynvis.Submesh         `json:"connectors"`
}

// Assemble resolves one descriptor file into a figure. Malformed data
// inside the descriptor is recoverable and reported through the sink;
// only an unreadable descriptor file is fatal.
func Assemble(path string, opts Options) (*Result, error) {
	sink := opts.Sink
	if sink == nil {
		sink = diag.Discard
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}

	d, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}

	bones := skeleton.ParseFrame(d, sink)
	resolver := attach.NewResolver(d, reg, sink)
	layers, orphans := buildLayers(d, resolver, sink)
	resolved := occupancy.Resolve(layers, reg, sink)
	world := skeleton.BuildWorld(bones, resolved.Attachments, sink)

	attachments := resolved.Attachments
	pool := &mesh.Pool{}
	if opts.Loader != nil {
		attachments = placeAttachments(resolved.Attachments, world, opts.Loader, pool, sink)
	}

	threshold := opts.SnapThreshold
	if threshold <= 0 {
		threshold = dynvis.DefaultSnapThreshold
	} else if opts.SnapRelative {
		threshold *= pool.BoundsDiagonal()
	}
	splitOpts := dynvis.Options{SnapThreshold: threshold}

	var connectors []dynvis.Submesh
	for _, cm := range resolved.Connectors {
		connectors = append(connectors, dynvis.Split(cm, world, pool, splitOpts, sink)...)
	}
	for _, cm := range orphans {
		connectors = append(connectors, dynvis.Split(cm, world, pool, splitOpts, sink)...)
	}

	return &Result{
		Bones:       bones,
		World:       world,
		Attachments: attachments,
		Connectors:  connectors,
	}, nil
}

// placeAttachments loads each winning attachment's mesh and flattens the
// placed vertices into the snap pool. A missing resource skips that
// attachment (the body may render with a gap) rather than failing.
func placeAttachments(atts []attach.Attachment, world map[string]mathutil.Vec3, loader mesh.Loader, pool *mesh.Pool, sink diag.Sink) []attach.Attachment {
	var kept []attach.Attachment
	for _, att := range atts {
		m, err := loader.Load(att.ResourceID)
		if err != nil {
			if errors.Is(err, mesh.ErrNotFound) {
				sink.Record(diag.Event{
					Kind:   diag.MissingMeshResource,
					Source: att.ResourceID,
					Detail: fmt.Sprintf("no mesh file for bone %s, skipping attachment", att.Node()),
				})
				continue
			}
			sink.Record(diag.Event{
				Kind:   diag.MissingMeshResource,
				Source: att.ResourceID,
				Detail: err.Error(),
			})
			continue
		}
		kept = append(kept, att)

		offset := world[att.Node()]
		placed := make([]mathutil.Vec3, len(m.Vertices))
		for i, v := range m.Vertices {
			placed[i] = v.Add(offset)
		}
		pool.Add(placed)
	}
	return kept
}

// WriteJSON serializes the result for the external scene builder.
// Map keys marshal sorted, so identical inputs yield identical bytes.
func (r *Result) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
