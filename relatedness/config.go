package relatedness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is used when no path is given.
const DefaultConfigFile = "relatedness.toml"

// Config holds the batch settings shared by the scoring and correlation runners.
type Config struct {
	// Workers bounds how many models are scored at once.
	Workers int `toml:"workers"`
	// DefaultFormat is the model file format used when Formats has no entry for a model.
	DefaultFormat Format `toml:"default_format"`
	// Formats maps a model name to its file format.
	Formats map[string]Format `toml:"formats"`
	// ReportDir is the subdirectory of the output directory receiving per-model reports.
	ReportDir string `toml:"report_dir"`
	// OutputFormat is the default rendering of correlation results: table, markdown or tsv.
	OutputFormat string `toml:"output_format"`

	ProbeTopN      int           `toml:"probe_top_n"`
	Probes         []string      `toml:"probes"`
	OptionalProbes []string      `toml:"optional_probes"`
	Columns        ColumnOptions `toml:"columns"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with the built-in settings.
func (c *Config) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.DefaultFormat == "" {
		c.DefaultFormat = FormatText
	}
	if c.Formats == nil {
		c.Formats = make(map[string]Format)
	}
	if c.ReportDir == "" {
		c.ReportDir = "extra"
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "table"
	}
	if c.ProbeTopN <= 0 {
		c.ProbeTopN = 30
	}
	if c.Probes == nil {
		c.Probes = DefaultProbes()
	}
	if c.OptionalProbes == nil {
		c.OptionalProbes = DefaultOptionalProbes()
	}
	c.Columns.Candidates = c.Columns.Candidates.withDefaults()
}

// Validate checks every configured format name.
func (c Config) Validate() error {
	if _, err := ParseFormat(string(c.DefaultFormat)); err != nil {
		return fmt.Errorf("default_format: %w", err)
	}
	for model, f := range c.Formats {
		if _, err := ParseFormat(string(f)); err != nil {
			return fmt.Errorf("formats.%s: %w", model, err)
		}
	}
	return nil
}

// FormatFor returns the file format configured for a model.
func (c Config) FormatFor(model string) Format {
	if f, ok := c.Formats[model]; ok && f != "" {
		return Format(strings.ToLower(string(f)))
	}
	return c.DefaultFormat
}

// LoadConfig reads a TOML configuration. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as TOML through a temp file and rename.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = DefaultConfigFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
