package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goscene.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)
	assert.True(t, cfg.Render.StrictProducers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
[window]
width = 640

[render]
strict_producers = false

[record]
enabled = true
fps = 30
duration = 2.5

[logging]
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.False(t, cfg.Render.StrictProducers)
	assert.Equal(t, 8, cfg.Render.BitDepth)
	assert.Equal(t, "output.mp4", cfg.Record.Output)
	assert.Equal(t, 75, cfg.Record.Frames())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	_, err := Load(writeConfig(t, "[window\nwidth = 1"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	cfg.Window.Width = 0
	cfg.Render.BitDepth = 10
	cfg.Record.Enabled = true
	cfg.Record.FPS = 0
	cfg.Record.Output = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "bit_depth")
	assert.Contains(t, err.Error(), "fps")
	assert.Contains(t, err.Error(), "output")
}
