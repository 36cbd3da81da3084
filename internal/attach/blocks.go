package attach

import (
	"strings"

	"figure-assembler/internal/descriptor"
)

// SkinEntry is one base-skin layer declaration:
// an occupancy vector and the identifier it applies to.
type SkinEntry struct {
	OccupancyRaw string
	Identifier   string
}

// ParseSkinEntries reads the <skin> block. Each line is
// "occupancy_vector:identifier"; lines without a colon are ignored.
func ParseSkinEntries(d *descriptor.Descriptor) []SkinEntry {
	var entries []SkinEntry
	for _, raw := range d.Block("skin") {
		s := strings.TrimSpace(raw)
		if s == "" || !strings.Contains(s, ":") {
			continue
		}
		vec, ident, _ := strings.Cut(s, ":")
		entries = append(entries, SkinEntry{
			OccupancyRaw: strings.TrimSpace(vec),
			Identifier:   strings.TrimSpace(ident),
		})
	}
	return entries
}

// ParseDefaultCos reads the <defaultcos> block: one dotted costume item
// name per line.
func ParseDefaultCos(d *descriptor.Descriptor) []string {
	var names []string
	for _, raw := range d.Block("defaultcos") {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		names = append(names, s)
	}
	return names
}
