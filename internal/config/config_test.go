package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staticmanifest/internal/manifest"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Resolver.Strict, "non-strict fallback is the default policy")
	assert.Equal(t, "auto", cfg.Manifest.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staticmanifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
manifest:
  path: dist/staticfiles.json
  format: staticfiles
resolver:
  strict: true
logging:
  level: debug
  json: false
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dist/staticfiles.json", cfg.Manifest.Path)
	assert.Equal(t, "staticfiles", cfg.Manifest.Format)
	assert.True(t, cfg.Resolver.Strict)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSON)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Run("implicit default path may be absent", func(t *testing.T) {
		oldwd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(oldwd) })

		cfg, err := Load("")
		require.NoError(t, err)
		assert.False(t, cfg.Resolver.Strict)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("manifest: [not: a: map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STATICMANIFEST_MANIFEST", "/srv/app/staticfiles.json")
	t.Setenv("STATICMANIFEST_FORMAT", "vite")
	t.Setenv("STATICMANIFEST_STRICT", "true")
	t.Setenv("STATICMANIFEST_LOG_LEVEL", "warn")

	cfg := Default()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/srv/app/staticfiles.json", cfg.Manifest.Path)
	assert.Equal(t, "vite", cfg.Manifest.Format)
	assert.True(t, cfg.Resolver.Strict)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvOverrides_BadBoolIgnored(t *testing.T) {
	t.Setenv("STATICMANIFEST_STRICT", "definitely")

	cfg := Default()
	cfg.applyEnvOverrides()

	assert.False(t, cfg.Resolver.Strict)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(), "manifest path is required")

	cfg.Manifest.Path = "dist/manifest.json"
	assert.NoError(t, cfg.Validate())

	cfg.Manifest.Format = "webpack"
	assert.Error(t, cfg.Validate())
}

func TestFormat(t *testing.T) {
	cfg := Default()
	assert.Equal(t, manifest.FormatAuto, cfg.Format())

	cfg.Manifest.Format = "vite"
	assert.Equal(t, manifest.FormatVite, cfg.Format())
}
