package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"figure-assembler/internal/diag"
	"figure-assembler/internal/mathutil"
	"figure-assembler/internal/mesh"
	"figure-assembler/internal/preview"

	"github.com/HugoSmits86/nativewebp"
)

// BatchConfig holds all shared resources for a batch run.
type BatchConfig struct {
	OutputDir   string
	Options     Options
	PreviewSize int
	Supersample int
	Workers     int
}

// BatchResult holds the outcome of assembling one descriptor.
type BatchResult struct {
	Path        string
	Success     bool
	Error       string
	Diagnostics []diag.Event
}

// connectorColor tints connector geometry in previews so joint fills
// stand out against the grey body parts.
var connectorColor = [4]float64{0.85, 0.55, 0.35, 1}

// RunBatch assembles all descriptors using a worker pool and writes one
// JSON figure (plus an optional WebP preview) per input.
func RunBatch(cfg BatchConfig, paths []string) []BatchResult {
	total := len(paths)
	results := make([]BatchResult, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f figures/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	pathChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range pathChan {
				results[idx] = processDescriptor(cfg, paths[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range paths {
		pathChan <- i
	}
	close(pathChan)

	wg.Wait()
	close(done)

	return results
}

func processDescriptor(cfg BatchConfig, path string) BatchResult {
	// Each descriptor gets its own collector so diagnostics stay
	// attributable under concurrency.
	collector := diag.NewCollector()
	opts := cfg.Options
	opts.Sink = collector

	res, err := Assemble(path, opts)
	if err != nil {
		return BatchResult{Path: path, Error: err.Error(), Diagnostics: collector.Events()}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return BatchResult{Path: path, Error: err.Error(), Diagnostics: collector.Events()}
	}

	outPath := filepath.Join(cfg.OutputDir, base+".json")
	if err := res.WriteJSON(outPath); err != nil {
		return BatchResult{Path: path, Error: err.Error(), Diagnostics: collector.Events()}
	}

	if cfg.PreviewSize > 0 {
		previewPath := filepath.Join(cfg.OutputDir, base+".webp")
		if err := writePreview(res, opts.Loader, previewPath, cfg.PreviewSize, cfg.Supersample); err != nil {
			return BatchResult{Path: path, Error: fmt.Sprintf("preview: %v", err), Diagnostics: collector.Events()}
		}
	}

	return BatchResult{Path: path, Success: true, Diagnostics: collector.Events()}
}

func writePreview(res *Result, loader mesh.Loader, path string, size, supersample int) error {
	meshes := buildPreviewMeshes(res, loader)

	img := preview.Render(meshes, size, supersample)
	if supersample > 1 {
		img = preview.Downsample(img, size)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return nativewebp.Encode(f, img, nil)
}

// buildPreviewMeshes flattens the figure into world-space triangle
// soups: one per attachment (re-loaded through the cache-backed loader)
// and one per connector submesh, already placed by the pipeline.
func buildPreviewMeshes(res *Result, loader mesh.Loader) []preview.Mesh {
	var meshes []preview.Mesh

	if loader != nil {
		for _, att := range res.Attachments {
			m, err := loader.Load(att.ResourceID)
			if err != nil {
				continue
			}
			offset := res.World[att.Node()]
			placed := make([]mathutil.Vec3, len(m.Vertices))
			for i, v := range m.Vertices {
				placed[i] = v.Add(offset)
			}
			meshes = append(meshes, preview.Mesh{Vertices: placed, Faces: m.Faces})
		}
	}

	for _, sub := range res.Connectors {
		meshes = append(meshes, preview.Mesh{
			Vertices: sub.Vertices,
			Faces:    sub.Faces,
			Color:    connectorColor,
		})
	}

	return meshes
}
