// Package config loads meshgen recipes: which shapes to generate, with what
// parameters, and where to write them.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Shape kinds understood by the recipe runner.
const (
	KindBox      = "box"
	KindSphere   = "sphere"
	KindCylinder = "cylinder"
	KindLathe    = "lathe"
	KindExtrude  = "extrude"
)

// Export formats understood by meshgen.
const (
	FormatOBJ  = "obj"
	FormatGLTF = "gltf"
	FormatGLB  = "glb"
	FormatSTL  = "stl"
)

var (
	knownKinds   = []string{KindBox, KindSphere, KindCylinder, KindLathe, KindExtrude}
	knownFormats = []string{FormatOBJ, FormatGLTF, FormatGLB, FormatSTL}
	knownLevels  = []string{"debug", "info", "warn", "error"}
)

// Config is a complete meshgen recipe.
type Config struct {
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Shapes  []ShapeConfig `yaml:"shapes" toml:"shapes"`
}

// OutputConfig controls where and how meshes are exported.
type OutputConfig struct {
	Dir      string   `yaml:"dir" toml:"dir"`
	Formats  []string `yaml:"formats" toml:"formats"`
	Combined bool     `yaml:"combined" toml:"combined"` // one file holding every shape
	Manifest bool     `yaml:"manifest" toml:"manifest"`
	Workers  int      `yaml:"workers" toml:"workers"` // 0 means one per CPU
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// ShapeConfig describes one generator call. Only the fields relevant to
// Kind are read.
type ShapeConfig struct {
	Name           string       `yaml:"name,omitempty" toml:"name,omitempty"`
	Kind           string       `yaml:"kind" toml:"kind"`
	Size           [3]float32   `yaml:"size,omitempty,flow" toml:"size,omitempty"`
	Radius         float32      `yaml:"radius,omitempty" toml:"radius,omitempty"`
	Height         float32      `yaml:"height,omitempty" toml:"height,omitempty"`
	LatSegments    int          `yaml:"lat_segments,omitempty" toml:"lat_segments,omitempty"`
	LonSegments    int          `yaml:"lon_segments,omitempty" toml:"lon_segments,omitempty"`
	RadialSegments int          `yaml:"radial_segments,omitempty" toml:"radial_segments,omitempty"`
	HeightSegments int          `yaml:"height_segments,omitempty" toml:"height_segments,omitempty"`
	Segments       int          `yaml:"segments,omitempty" toml:"segments,omitempty"`
	Capped         *bool        `yaml:"capped,omitempty" toml:"capped,omitempty"`
	Profile        [][2]float32 `yaml:"profile,omitempty,flow" toml:"profile,omitempty"`
	Polygon        [][2]float32 `yaml:"polygon,omitempty,flow" toml:"polygon,omitempty"`
}

// IsCapped reports whether a cylinder or extrusion should be closed. It
// defaults to true.
func (s ShapeConfig) IsCapped() bool {
	return s.Capped == nil || *s.Capped
}

// Label names the shape for logs and file names: its Name, or
// "<kind>-<index>" when unnamed.
func (s ShapeConfig) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%s-%d", s.Kind, index)
}

// Bool returns a pointer to b, for filling Capped.
func Bool(b bool) *bool {
	return &b
}

// Default returns a Config with a small demonstration recipe.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:      "out",
			Formats:  []string{FormatOBJ},
			Manifest: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Shapes: []ShapeConfig{
			{Name: "crate", Kind: KindBox, Size: [3]float32{1, 1, 1}},
			{Name: "globe", Kind: KindSphere, Radius: 1, LatSegments: 24, LonSegments: 48},
			{Name: "pillar", Kind: KindCylinder, Radius: 0.5, Height: 2, RadialSegments: 32, HeightSegments: 1},
			{Name: "vase", Kind: KindLathe, Segments: 48, Profile: [][2]float32{
				{0.3, 0}, {0.5, 0.2}, {0.55, 0.6}, {0.35, 1}, {0.25, 1.3}, {0.3, 1.5},
			}},
			{Name: "prism", Kind: KindExtrude, Height: 1, Polygon: [][2]float32{
				{1, 0}, {0.5, 0.866}, {-0.5, 0.866}, {-1, 0}, {-0.5, -0.866}, {0.5, -0.866},
			}},
		},
	}
}

// Find returns the shape with the given name.
func (c *Config) Find(name string) (ShapeConfig, bool) {
	for _, s := range c.Shapes {
		if s.Name == name {
			return s, true
		}
	}
	return ShapeConfig{}, false
}

// Validate checks the parts of the recipe the generators cannot: kinds,
// formats, output location and name uniqueness. Generator parameters are
// validated by the generators themselves.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("output.dir is empty: %w", ErrInvalidConfig)
	}
	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("output.formats is empty: %w", ErrInvalidConfig)
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(knownFormats, f) {
			return fmt.Errorf("unknown export format %q (want one of %s): %w", f, strings.Join(knownFormats, ", "), ErrInvalidConfig)
		}
	}
	if c.Output.Workers < 0 {
		return fmt.Errorf("output.workers is negative: %w", ErrInvalidConfig)
	}
	if c.Logging.Level != "" && !slices.Contains(knownLevels, c.Logging.Level) {
		return fmt.Errorf("unknown log level %q: %w", c.Logging.Level, ErrInvalidConfig)
	}

	if len(c.Shapes) == 0 {
		return fmt.Errorf("no shapes: %w", ErrInvalidConfig)
	}
	seen := make(map[string]int, len(c.Shapes))
	for i, s := range c.Shapes {
		if !slices.Contains(knownKinds, s.Kind) {
			return fmt.Errorf("shape %d: unknown kind %q: %w", i, s.Kind, ErrInvalidConfig)
		}
		label := s.Label(i)
		if j, dup := seen[label]; dup {
			return fmt.Errorf("shapes %d and %d are both named %q: %w", j, i, label, ErrInvalidConfig)
		}
		seen[label] = i
	}
	return nil
}

// formatOf maps a config file extension to its encoding.
func formatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".toml":
		return "toml", nil
	default:
		return "", fmt.Errorf("unsupported config extension %q", ext)
	}
}
