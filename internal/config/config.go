// Package config loads the launcher's YAML configuration file. The core
// never reads this file: it only sees the injected ports.Config the
// loader produces. A missing file yields platform defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corey/lumen/internal/ports"
)

// File is the on-disk configuration shape.
type File struct {
	// ApplicationDirs are the directories scanned for launchable apps.
	ApplicationDirs []string `yaml:"application_dirs"`

	// Applications are explicit application paths indexed in addition to
	// the directory scan.
	Applications []string `yaml:"applications"`

	// Ranking tunes the scoring blend.
	Ranking Ranking `yaml:"ranking"`
}

// Ranking is the YAML form of ports.Config. Pointer fields distinguish
// "absent, use default" from an explicit zero (w_usage: 0 disables the
// learned signal entirely). The half-life is a Go duration string
// ("168h"; "7d" is not valid — use hours).
type Ranking struct {
	WFuzzy          *float64 `yaml:"w_fuzzy"`
	WUsage          *float64 `yaml:"w_usage"`
	RecencyHalfLife string   `yaml:"recency_half_life"`
	TopK            *int     `yaml:"top_k"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "lumen", "config.yaml"), nil
}

// DataDir returns the per-user directory for the usage database,
// creating it if needed.
func DataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	path := filepath.Join(dir, "lumen")
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return path, nil
}

// Default returns the platform's default configuration.
func Default() *File {
	return &File{ApplicationDirs: defaultAppDirs()}
}

func defaultAppDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications",
			"/System/Applications",
			filepath.Join(home, "Applications"),
		}
	default:
		return []string{
			"/usr/share/applications",
			"/usr/local/share/applications",
			filepath.Join(home, ".local/share/applications"),
		}
	}
}

// Load reads the config file at path. A nonexistent file is not an error:
// defaults are returned. A malformed file is an error — silently ignoring
// a typo'd config is worse than failing loudly at startup.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	f := Default()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(f.ApplicationDirs) == 0 {
		f.ApplicationDirs = defaultAppDirs()
	}
	return f, nil
}

// RankingConfig converts the YAML ranking block into the injected
// ports.Config, applying defaults for absent fields.
func (f *File) RankingConfig() (ports.Config, error) {
	cfg := ports.DefaultConfig()
	if f.Ranking.WFuzzy != nil {
		cfg.WFuzzy = *f.Ranking.WFuzzy
	}
	if f.Ranking.WUsage != nil {
		cfg.WUsage = *f.Ranking.WUsage
	}
	if f.Ranking.TopK != nil {
		cfg.TopK = *f.Ranking.TopK
	}
	if f.Ranking.RecencyHalfLife != "" {
		d, err := time.ParseDuration(f.Ranking.RecencyHalfLife)
		if err != nil {
			return ports.Config{}, fmt.Errorf("recency_half_life: %w", err)
		}
		cfg.RecencyHalfLife = d
	}
	return cfg.Normalize(), nil
}
