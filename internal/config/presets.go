package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/liveboard/liveboard/internal/engine"
)

// Presets is the optional toolbar presets file:
//
//	[defaults]
//	tool = "pen"
//	pen_color = "#1e88e5"
//	pen_width = 4
//
//	palette = ["#000000", "#e53935", "#43a047"]
type Presets struct {
	Defaults engine.Settings `toml:"defaults"`
	Palette  []string        `toml:"palette"`
}

// DefaultPresets returns the built-in toolbar state.
func DefaultPresets() Presets {
	return Presets{
		Defaults: engine.DefaultSettings(),
		Palette:  []string{"#000000", "#e53935", "#1e88e5", "#43a047", "#fdd835"},
	}
}

// LoadPresets reads a TOML presets file on top of the defaults. An empty
// path or a missing file yields the defaults; keys absent from the file keep
// their default values.
func LoadPresets(path string) (Presets, error) {
	p := DefaultPresets()
	if path == "" {
		return p, nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return p, fmt.Errorf("expand presets path: %w", err)
	}
	f, err := os.Open(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("open presets: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(&p); err != nil {
		return DefaultPresets(), fmt.Errorf("decode presets %s: %w", expanded, err)
	}
	return p, nil
}
