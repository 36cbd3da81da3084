package assemble

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// ManifestEntry represents one figure in the output manifest.
type ManifestEntry struct {
	Descriptor  string `json:"descriptor"`
	Figure      string `json:"figure"`
	Preview     string `json:"preview,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	Diagnostics int    `json:"diagnostics"`
}

// WriteManifest writes manifest.json summarizing a batch run.
func WriteManifest(path string, results []BatchResult, previews bool) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		base := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
		e := ManifestEntry{
			Descriptor:  filepath.Base(r.Path),
			Figure:      base + ".json",
			Success:     r.Success,
			Error:       r.Error,
			Diagnostics: len(r.Diagnostics),
		}
		if previews && r.Success {
			e.Preview = base + ".webp"
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
