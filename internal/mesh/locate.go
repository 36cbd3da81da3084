package mesh

import (
	"fmt"
	"os"
	"path/filepath"

	"figure-assembler/internal/registry"
)

// Locate maps a dotted resource id to an on-disk mesh file path:
// "ciel.blazer" becomes <dir>/ciel/blazer.X (or .x). Returns false when
// no candidate exists, which callers surface as ErrNotFound.
func Locate(dir, resourceID string) (string, bool) {
	prefix, name, ok := registry.SplitIdentifier(resourceID)
	if !ok {
		return "", false
	}
	folder := filepath.Join(dir, prefix)
	for _, ext := range []string{".X", ".x"} {
		candidate := filepath.Join(folder, name+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// StatLoader returns a Loader that only verifies a resource exists on
// disk. Decoding mesh files belongs to the scene builder; the assembler
// needs presence checks so missing-part diagnostics still fire when no
// real decoder is plugged in.
func StatLoader(dir string) Loader {
	return LoaderFunc(func(resourceID string) (*Mesh, error) {
		if _, ok := Locate(dir, resourceID); !ok {
			return nil, fmt.Errorf("mesh: %s: %w", resourceID, ErrNotFound)
		}
		return &Mesh{}, nil
	})
}
