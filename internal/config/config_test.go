package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "crawlkit", cfg.Release.Name)
	assert.Equal(t, "crawlkit", cfg.Values.Image.Repository)
	assert.Equal(t, "postgres", cfg.Values.Database.Image.Repository)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := writeConfig(t, "crawlkit.yaml", `
release:
  name: prod
values:
  global:
    imageRegistry: reg.example.com
  image:
    tag: v2
  api:
    replicas: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Release.Name)
	assert.Equal(t, "reg.example.com", cfg.Values.Global.ImageRegistry)
	assert.Equal(t, "v2", cfg.Values.Image.Tag)
	assert.Equal(t, int32(4), cfg.Values.API.Replicas)

	// Defaults not mentioned in the file survive the merge
	assert.Equal(t, "crawlkit", cfg.Release.Namespace)
	assert.Equal(t, "crawlkit", cfg.Values.Image.Repository)
	assert.Equal(t, "crawler-api", cfg.Values.API.Name)
	assert.Equal(t, int32(8080), cfg.Values.API.Port)
	assert.Equal(t, "15-alpine", cfg.Values.Database.Image.Tag)
}

func TestLoadTOMLOverrides(t *testing.T) {
	path := writeConfig(t, "crawlkit.toml", `
[release]
name = "staging"

[values.database.image]
tag = "16-alpine"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Release.Name)
	assert.Equal(t, "16-alpine", cfg.Values.Database.Image.Tag)
	assert.Equal(t, "postgres", cfg.Values.Database.Image.Repository)
}

func TestLoadJSONOverrides(t *testing.T) {
	path := writeConfig(t, "crawlkit.json", `{
  "values": {"nameOverride": "crawler"}
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "crawler", cfg.Values.NameOverride)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "crawlkit.ini", "release=prod")

	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported config file format")
}

func TestReleaseIdentity(t *testing.T) {
	cfg := Default()
	cfg.Release.Name = "prod"

	identity := cfg.ReleaseIdentity()
	assert.Equal(t, "prod", identity.Name)
	assert.Equal(t, ServiceName, identity.Service)
}

func TestChartIdentity(t *testing.T) {
	identity := ChartIdentity()
	assert.Equal(t, ChartName, identity.Name)
	assert.NotEmpty(t, identity.Version)
	assert.NotEmpty(t, identity.AppVersion)
}
