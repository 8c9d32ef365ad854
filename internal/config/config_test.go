package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveboard/liveboard/internal/engine"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "file", cfg.StoreKind)
	assert.Equal(t, 500*time.Millisecond, cfg.AutosaveDebounce)
	assert.Equal(t, 200*time.Millisecond, cfg.BlurGrace)
	assert.Equal(t, []string{"localhost:5173", "localhost:3000"}, cfg.Origins())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LIVEBOARD_PORT", "9090")
	t.Setenv("LIVEBOARD_AUTOSAVE_DEBOUNCE", "2s")
	t.Setenv("LIVEBOARD_LOG_LEVEL", "debug")
	t.Setenv("LIVEBOARD_ALLOWED_ORIGINS", " a.test , ,b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.AutosaveDebounce)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, []string{"a.test", "b.test"}, cfg.Origins())
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("LIVEBOARD_PORT", "70000")
	_, err := Load()
	assert.Error(t, err)
}

func TestLevelFallsBackToInfo(t *testing.T) {
	cfg := &Config{LogLevel: "chatty"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadPresets(t *testing.T) {
	p, err := LoadPresets("")
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultSettings(), p.Defaults)

	p, err = LoadPresets(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultSettings(), p.Defaults)

	path := filepath.Join(t.TempDir(), "presets.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
palette = ["#111111"]

[defaults]
tool = "shape"
pen_width = 6
shape_type = "ellipse"
`), 0o644))

	p, err = LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, engine.ToolShape, p.Defaults.Tool)
	assert.Equal(t, 6.0, p.Defaults.PenWidth)
	assert.Equal(t, "ellipse", string(p.Defaults.ShapeType))
	assert.Equal(t, "#000000", p.Defaults.PenColor, "unset keys keep defaults")
	assert.Equal(t, []string{"#111111"}, p.Palette)
}

func TestLoadPresetsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	require.NoError(t, os.WriteFile(path, []byte("[defaults\n"), 0o644))
	p, err := LoadPresets(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultPresets(), p)
}
