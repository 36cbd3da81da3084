package attach

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"figure-assembler/internal/descriptor"
	"figure-assembler/internal/diag"
	"figure-assembler/internal/registry"
)

// Resolver turns dotted identifiers like "ciel.blazer" into attachment
// lists, following cross-file lookups into sibling descriptor files.
// Cross-referenced descriptors are loaded lazily and cached for the
// lifetime of the resolver; one resolver serves one resolution session
// and is not safe for concurrent use.
type Resolver struct {
	base  *descriptor.Descriptor
	dir   string
	reg   *registry.Registry
	sink  diag.Sink
	cache map[string]*descriptor.Descriptor // prefix -> descriptor, nil for known-missing
}

// NewResolver creates a resolver rooted at the given descriptor.
// Cross-file lookups search the descriptor's own directory.
func NewResolver(base *descriptor.Descriptor, reg *registry.Registry, sink diag.Sink) *Resolver {
	return &Resolver{
		base:  base,
		dir:   filepath.Dir(base.Path),
		reg:   reg,
		sink:  sink,
		cache: make(map[string]*descriptor.Descriptor),
	}
}

// Resolve maps an identifier to its attachments plus an optional
// connector mesh. Three paths are tried in order: a direct block match
// in the current descriptor, a grouped alias into the cross-referenced
// descriptor, then a direct block there. When every path fails a
// placeholder attachment is synthesized so resolution always terminates
// with some result.
func (r *Resolver) Resolve(identifier string) ([]Attachment, *DynamicMesh) {
	return r.resolve(identifier, make(map[string]bool))
}

func (r *Resolver) resolve(identifier string, visited map[string]bool) ([]Attachment, *DynamicMesh) {
	if visited[identifier] {
		r.sink.Record(diag.Event{
			Kind:   diag.UnresolvedIdentifier,
			Source: identifier,
			Detail: "reference cycle detected, dropping",
		})
		return nil, nil
	}
	visited[identifier] = true

	prefix, suffix, ok := registry.SplitIdentifier(identifier)
	if !ok {
		r.sink.Record(diag.Event{
			Kind:   diag.UnresolvedIdentifier,
			Source: identifier,
			Detail: "malformed identifier, want prefix.suffix",
		})
		return nil, nil
	}

	// Direct block in the current descriptor.
	if lines, ok := r.base.Blocks[suffix]; ok {
		return ParseAttachmentBlock(lines), ParseDynamicVisual(lines, suffix)
	}

	if other := r.load(prefix); other != nil {
		// Grouped alias: the base-skin anatomy is defined once in the
		// shared descriptor under a fixed block name.
		if blockName, ok := r.reg.GroupedBlock(suffix); ok {
			if lines, ok := other.Blocks[blockName]; ok {
				return ParseAttachmentBlock(lines), ParseDynamicVisual(lines, prefix+"."+blockName)
			}
		}
		if lines, ok := other.Blocks[suffix]; ok {
			return ParseAttachmentBlock(lines), ParseDynamicVisual(lines, identifier)
		}
	}

	// Placeholder: bind the literal identifier to an inferred bone.
	r.sink.Record(diag.Event{
		Kind:   diag.UnresolvedIdentifier,
		Source: identifier,
		Detail: fmt.Sprintf("no block %q found, emitting placeholder on bone %q", suffix, r.reg.InferredBone(suffix)),
	})
	return []Attachment{{AttachBone: r.reg.InferredBone(suffix), ResourceID: identifier}}, nil
}

// CostumeItem is one resolved <defaultcos> entry. The item block holds a
// single mapping line "occupancy_vector:identifier" pointing at the
// actual attachment block (conventionally named *_vp).
type CostumeItem struct {
	Item         string // block name inside the descriptor
	Source       string // label of the resolved visual block, for dedup and diagnostics
	OccupancyRaw string // unparsed occupancy vector field
	Attachments  []Attachment
	Mesh         *DynamicMesh
}

// ResolveCostume resolves a defaultcos entry like "ciel.blazer".
func (r *Resolver) ResolveCostume(full string) (*CostumeItem, bool) {
	_, item, ok := registry.SplitIdentifier(full)
	if !ok {
		return nil, false
	}
	lines, ok := r.base.Blocks[item]
	if !ok {
		r.sink.Record(diag.Event{
			Kind:   diag.UnresolvedIdentifier,
			Source: full,
			Detail: fmt.Sprintf("costume item block %q not found", item),
		})
		return nil, false
	}

	for _, raw := range lines {
		s := strings.TrimSpace(raw)
		if s == "" || strings.HasPrefix(s, "class:") || !strings.Contains(s, ":") {
			continue
		}
		occRaw, vpIdent, _ := strings.Cut(s, ":")
		vpIdent = strings.TrimSpace(vpIdent)

		ci := &CostumeItem{Item: item, OccupancyRaw: strings.TrimSpace(occRaw)}
		if _, vpName, ok := registry.SplitIdentifier(vpIdent); ok {
			ci.Source = vpName
			visited := map[string]bool{full: true}
			ci.Attachments, ci.Mesh = r.resolve(vpIdent, visited)
		} else {
			ci.Source = vpIdent
			vpLines, ok := r.base.Blocks[vpIdent]
			if !ok {
				r.sink.Record(diag.Event{
					Kind:   diag.UnresolvedIdentifier,
					Source: full,
					Detail: fmt.Sprintf("visual block %q not found", vpIdent),
				})
				return ci, true
			}
			ci.Attachments = ParseAttachmentBlock(vpLines)
			ci.Mesh = ParseDynamicVisual(vpLines, vpIdent)
		}
		// Only the first mapping line carries the visual target.
		return ci, true
	}
	return nil, false
}

// load fetches (and caches) the sibling descriptor file for a prefix,
// trying the upper-case extension first as the original data ships it.
func (r *Resolver) load(prefix string) *descriptor.Descriptor {
	if d, ok := r.cache[prefix]; ok {
		return d
	}
	for _, name := range []string{prefix + ".TXT", prefix + ".txt"} {
		path := filepath.Join(r.dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		d, err := descriptor.Load(path)
		if err != nil {
			continue
		}
		r.cache[prefix] = d
		return d
	}
	r.cache[prefix] = nil
	return nil
}
