package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"figure-assembler/internal/assemble"
	"figure-assembler/internal/config"
	"figure-assembler/internal/mesh"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	descFile := flag.String("desc", "", "Assemble only this descriptor file")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Directory containing descriptor files (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: <data>/assembled)")
	snap := flag.Float64("snap", 0, "Connector snap threshold in world units (default: 1.0)")
	preview := flag.Bool("preview", false, "Also write a WebP preview per figure")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		DataDir:       *dataDir,
		OutputDir:     *outputDir,
		SnapThreshold: *snap,
		Workers:       *workers,
	})

	// Collect descriptors
	var paths []string
	if *descFile != "" {
		paths = []string{*descFile}
	} else {
		paths = findDescriptors(cfg.DataDir)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no descriptor files found. Use -desc or -data.")
		os.Exit(1)
	}

	loader := mesh.NewCache(mesh.StatLoader(cfg.MeshDir))

	previewSize := 0
	if *preview {
		previewSize = cfg.PreviewSize
	}

	fmt.Printf("Figure assembler\n")
	fmt.Printf("Descriptors: %d, Workers: %d\n", len(paths), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := assemble.BatchConfig{
		OutputDir: cfg.OutputDir,
		Options: assemble.Options{
			Loader:        loader,
			SnapThreshold: cfg.SnapThreshold,
			SnapRelative:  cfg.SnapRelative,
		},
		PreviewSize: previewSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
	}

	results := assemble.RunBatch(batchCfg, paths)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []assemble.BatchResult
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Assembled: %d/%d\n", success, len(paths))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", filepath.Base(e.Path), e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := assemble.WriteManifest(manifestPath, results, *preview); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// findDescriptors lists character descriptor files in dir. Descriptor
// and satellite costume files share the .TXT extension, so everything
// matches; satellites without a frame block simply assemble to an empty
// skeleton and are cheap to skip by eye in the manifest.
func findDescriptors(dir string) []string {
	var paths []string
	for _, pat := range []string{"*.TXT", "*.txt"} {
		matches, _ := filepath.Glob(filepath.Join(dir, pat))
		paths = append(paths, matches...)
	}
	sort.Strings(paths)
	return paths
}
