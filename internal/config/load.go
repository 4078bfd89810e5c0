package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration with priority: defaults < file < flags.
// The file is the -config path when given, otherwise the first of
// meshgen.yaml, meshgen.yml or meshgen.toml found in the working directory
// or the user config directory. A nil f loads defaults and file only.
func Load(f *Flags) (*Config, error) {
	cfg := Default()

	if path := Path(f); path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if f != nil {
		f.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the recipe file Load reads: the -config flag when set,
// otherwise the first standard location that exists, or "" for none.
func Path(f *Flags) string {
	if f != nil && f.ConfigPath != "" {
		return f.ConfigPath
	}
	return findConfigFile()
}

// LoadFile merges the YAML or TOML file at path into cfg. A shapes list in
// the file replaces the default shapes rather than merging with them.
func LoadFile(cfg *Config, path string) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	defaults := cfg.Shapes
	cfg.Shapes = nil

	switch format {
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if err != nil && len(bytes.TrimSpace(data)) == 0 {
			err = nil
		}
	}
	if cfg.Shapes == nil {
		cfg.Shapes = defaults
	}
	return err
}

// findConfigFile looks for a recipe in the standard locations.
func findConfigFile() string {
	var candidates []string
	for _, dir := range []string{".", ConfigDir()} {
		if dir == "" {
			continue
		}
		for _, name := range []string{"meshgen.yaml", "meshgen.yml", "meshgen.toml"} {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user configuration directory for meshgen, or
// "" when the platform has none.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "meshgen")
}
