package descriptor

import (
	"fmt"
	"os"
	"strings"
)

// Descriptor holds a character descriptor file split into named blocks.
// Lines inside a block are preserved verbatim: the same raw block is
// parsed differently depending on whether it is read as bones,
// attachments, or DynamicVisual data.
type Descriptor struct {
	Path   string
	Blocks map[string][]string
	Order  []string // block names in file order, for deterministic iteration
}

// Load reads a descriptor file and splits it into blocks.
// A block starts at a line matching <name> and ends at a literal </>.
// Blocks are not nested. A missing file is a hard error.
func Load(path string) (*Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("descriptor: read %s: %w", path, err)
	}

	d := &Descriptor{
		Path:   path,
		Blocks: make(map[string][]string),
	}

	var name string
	var lines []string
	inBlock := false

	for _, ln := range strings.Split(string(raw), "\n") {
		ln = strings.TrimRight(ln, "\r")
		s := strings.TrimSpace(ln)

		if s == "</>" {
			if inBlock {
				if _, dup := d.Blocks[name]; !dup {
					d.Order = append(d.Order, name)
				}
				d.Blocks[name] = lines
			}
			inBlock = false
			lines = nil
			continue
		}
		if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") && !strings.HasPrefix(s, "</") {
			name = strings.TrimSpace(strings.Trim(s, "<>"))
			lines = nil
			inBlock = true
			continue
		}
		if inBlock {
			lines = append(lines, ln)
		}
	}

	return d, nil
}

// Block returns the lines of a named block, or nil if absent.
func (d *Descriptor) Block(name string) []string {
	return d.Blocks[name]
}

// HasBlock reports whether the descriptor defines a block.
func (d *Descriptor) HasBlock(name string) bool {
	_, ok := d.Blocks[name]
	return ok
}
