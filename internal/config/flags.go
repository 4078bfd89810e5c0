package config

import (
	"flag"
	"strings"
)

// Flags are the command-line overrides shared by the meshgen binaries.
type Flags struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	OutDir     string
	Formats    string
	Workers    int
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to a YAML or TOML recipe")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also log to this rotating file")
	fs.StringVar(&f.OutDir, "out", "", "Output directory")
	fs.StringVar(&f.Formats, "formats", "", "Comma-separated export formats (obj,gltf,glb,stl)")
	fs.IntVar(&f.Workers, "workers", 0, "Concurrent shape builds (0 = one per CPU)")
	return f
}

// apply copies set flags over cfg.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.OutDir != "" {
		cfg.Output.Dir = f.OutDir
	}
	if f.Formats != "" {
		var formats []string
		for _, s := range strings.Split(f.Formats, ",") {
			if s = strings.TrimSpace(s); s != "" {
				formats = append(formats, strings.ToLower(s))
			}
		}
		cfg.Output.Formats = formats
	}
	if f.Workers > 0 {
		cfg.Output.Workers = f.Workers
	}
}
