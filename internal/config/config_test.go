package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/lumen/internal/ports"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, f.ApplicationDirs)

	cfg, err := f.RankingConfig()
	require.NoError(t, err)
	assert.Equal(t, ports.DefaultConfig(), cfg)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
application_dirs:
  - /opt/apps
applications:
  - /opt/special/editor.desktop
ranking:
  w_fuzzy: 2.5
  w_usage: 4
  recency_half_life: 24h
  top_k: 12
`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/apps"}, f.ApplicationDirs)
	assert.Equal(t, []string{"/opt/special/editor.desktop"}, f.Applications)

	cfg, err := f.RankingConfig()
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.WFuzzy)
	assert.Equal(t, 4.0, cfg.WUsage)
	assert.Equal(t, 24*time.Hour, cfg.RecencyHalfLife)
	assert.Equal(t, 12, cfg.TopK)
}

func TestLoad_PartialRankingKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
ranking:
  top_k: 3
`)

	f, err := Load(path)
	require.NoError(t, err)

	cfg, err := f.RankingConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, ports.DefaultWFuzzy, cfg.WFuzzy)
	assert.Equal(t, ports.DefaultWUsage, cfg.WUsage)
	assert.Equal(t, ports.DefaultRecencyHalfLife, cfg.RecencyHalfLife)
}

func TestLoad_ExplicitZeroUsageWeight(t *testing.T) {
	path := writeConfig(t, `
ranking:
  w_usage: 0
`)

	f, err := Load(path)
	require.NoError(t, err)

	cfg, err := f.RankingConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.WUsage, "an explicit zero disables the learned signal")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "application_dirs: [unclosed")
	_, err := Load(path)
	assert.Error(t, err, "a typo'd config fails loudly at startup")
}

func TestRankingConfig_BadDuration(t *testing.T) {
	path := writeConfig(t, `
ranking:
  recency_half_life: 7d
`)

	f, err := Load(path)
	require.NoError(t, err)
	_, err = f.RankingConfig()
	assert.Error(t, err, "days are not a Go duration unit")
}
