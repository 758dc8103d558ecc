// Package config loads and saves tubeline preferences from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chazu/tubeline/pkg/tube"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the preferences file, relative to the working directory.
const DefaultPath = "config/tubeline.yaml"

// Vec is a YAML-friendly 3-vector.
type Vec [3]float64

func (v Vec) vec() v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// TubePrefs are the defaults applied to every (tube ...) form and toolbox drop.
type TubePrefs struct {
	Segments int     `yaml:"segments"`
	Radius   float64 `yaml:"radius"`
	Step     float64 `yaml:"step"`
	Up       Vec     `yaml:"up,flow"`
	Fallback Vec     `yaml:"fallback,flow"`
	Frame    string  `yaml:"frame"`
}

// PlacementPrefs control where dropped actors land.
type PlacementPrefs struct {
	Snap      bool    `yaml:"snap"`
	SnapValue float64 `yaml:"snap_value"`
}

// Prefs holds all persisted preferences.
type Prefs struct {
	Tube      TubePrefs      `yaml:"tube"`
	Placement PlacementPrefs `yaml:"placement"`
	LogLevel  string         `yaml:"log_level"`
	ExportDir string         `yaml:"export_dir"`
}

// Default returns the built-in preferences.
func Default() Prefs {
	d := tube.DefaultConfig()
	return Prefs{
		Tube: TubePrefs{
			Segments: d.Segments,
			Radius:   d.Radius,
			Step:     d.Step,
			Up:       Vec{d.Up.X, d.Up.Y, d.Up.Z},
			Fallback: Vec{d.Fallback.X, d.Fallback.Y, d.Fallback.Z},
			Frame:    d.Frame.String(),
		},
		Placement: PlacementPrefs{Snap: false, SnapValue: 10},
		LogLevel:  "info",
		ExportDir: "export",
	}
}

// Load reads preferences from path. A missing file yields Default() without
// creating anything; a malformed or invalid file is an error. Keys absent
// from the file keep their default values.
func Load(path string) (Prefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating its directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the tube defaults, snapping and log level.
func (p Prefs) Validate() error {
	if _, err := p.TubeConfig(); err != nil {
		return err
	}
	if p.Placement.Snap && p.Placement.SnapValue <= 0 {
		return fmt.Errorf("placement.snap_value must be positive when snapping, got %g", p.Placement.SnapValue)
	}
	if _, err := zerolog.ParseLevel(p.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// TubeConfig converts the tube preferences to a validated tube.Config.
func (p Prefs) TubeConfig() (tube.Config, error) {
	frame, err := tube.ParseFrame(p.Tube.Frame)
	if err != nil {
		return tube.Config{}, err
	}
	cfg := tube.Config{
		Segments: p.Tube.Segments,
		Radius:   p.Tube.Radius,
		Step:     p.Tube.Step,
		Up:       p.Tube.Up.vec(),
		Fallback: p.Tube.Fallback.vec(),
		Frame:    frame,
	}
	if err := cfg.Validate(); err != nil {
		return tube.Config{}, err
	}
	return cfg, nil
}

// Level returns the configured log level, or info if it cannot be parsed.
func (p Prefs) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(p.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
