package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and assembly settings.
type Config struct {
	// Paths
	DataDir   string `json:"data_dir"`
	MeshDir   string `json:"mesh_dir"`
	OutputDir string `json:"output_dir"`

	// Assembly settings
	SnapThreshold float64 `json:"snap_threshold"`
	SnapRelative  bool    `json:"snap_relative"`
	PreviewSize   int     `json:"preview_size"`
	Supersample   int     `json:"supersample"`
	Workers       int     `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.DataDir != "" {
		c.DataDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.SnapThreshold > 0 {
		c.SnapThreshold = flags.SnapThreshold
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.DataDir == "" {
		c.DataDir = detectDataDir()
	}

	// Resolve relative paths against the data dir
	if c.DataDir != "" {
		if c.MeshDir == "" {
			c.MeshDir = c.DataDir
		} else if !filepath.IsAbs(c.MeshDir) {
			c.MeshDir = filepath.Join(c.DataDir, c.MeshDir)
		}

		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(c.DataDir, "assembled")
		} else if !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.DataDir, c.OutputDir)
		}
	}

	// Defaults for assembly settings
	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir       string
	OutputDir     string
	SnapThreshold float64
	Workers       int
}

func detectDataDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if hasDescriptors(base) {
				return base
			}
		}
	}

	// Try current working directory
	cwd, _ := os.Getwd()
	if hasDescriptors(cwd) {
		return cwd
	}

	return cwd
}

func hasDescriptors(dir string) bool {
	for _, pat := range []string{"*.TXT", "*.txt"} {
		if matches, _ := filepath.Glob(filepath.Join(dir, pat)); len(matches) > 0 {
			return true
		}
	}
	return false
}
