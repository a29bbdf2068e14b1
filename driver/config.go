package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name LoadConfig looks for by default.
const ConfigFile = "gtscript.yaml"

// Config is the host configuration read from gtscript.yaml.
type Config struct {
	// Root is the directory modules are resolved against.
	Root string `yaml:"root"`

	// Entry is the program run when no file is named on the command line.
	Entry string `yaml:"entry,omitempty"`

	// LogLevel is a zerolog level name ("info", "debug", "trace", ...).
	LogLevel string `yaml:"log_level,omitempty"`

	// MaxCallDepth bounds nested calls. Zero keeps the interpreter default.
	MaxCallDepth int `yaml:"max_call_depth,omitempty"`

	// ModuleExt lists the extensions tried, in order, when an import names
	// a module without one.
	ModuleExt []string `yaml:"module_ext,omitempty"`
}

// DefaultConfig is the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads path. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses gtscript.yaml content. The path is used only in
// error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("%s: max_call_depth must not be negative, got %d", path, c.MaxCallDepth)
	}
	for _, ext := range c.ModuleExt {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%s: module_ext entry %q must start with a dot", path, ext)
		}
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%s: log_level: %w", path, err)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if len(c.ModuleExt) == 0 {
		c.ModuleExt = []string{".ts", ".gt"}
	}
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
