// Package config loads svgmcp settings from a TOML or YAML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, SVGMCP_*
// environment variables, command-line flags (applied by the CLI).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/svgmcp/pkg/encode"
	"github.com/matzehuels/svgmcp/pkg/raster"
)

// Environment variables that override file settings.
const (
	EnvOutputDir = "SVGMCP_OUTPUT_DIR"
	EnvLogLevel  = "SVGMCP_LOG_LEVEL"
	EnvHTTPAddr  = "SVGMCP_HTTP_ADDR"
)

// Config holds all settings.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Output OutputConfig `toml:"output" yaml:"output"`
	Render RenderConfig `toml:"render" yaml:"render"`
	JPEG   JPEGConfig   `toml:"jpeg" yaml:"jpeg"`
	HTTP   HTTPConfig   `toml:"http" yaml:"http"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
}

// OutputConfig controls file delivery.
type OutputConfig struct {
	// Dir receives emitted files; empty means the system temp directory.
	Dir string `toml:"dir" yaml:"dir"`
}

// RenderConfig controls parsing and rasterization.
type RenderConfig struct {
	MaxPixels int  `toml:"max_pixels" yaml:"max_pixels"`
	Strict    bool `toml:"strict" yaml:"strict"`
}

// JPEGConfig controls JPEG encoding.
type JPEGConfig struct {
	DefaultQuality int `toml:"default_quality" yaml:"default_quality"`
}

// HTTPConfig controls the optional HTTP API.
type HTTPConfig struct {
	// Addr is the listen address; empty disables the API.
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Render: RenderConfig{MaxPixels: raster.DefaultMaxPixels},
		JPEG:   JPEGConfig{DefaultQuality: encode.DefaultQuality},
	}
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/svgmcp/config.toml (or the OS equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "svgmcp", "config.toml"), nil
}

// Load reads settings from path on top of Default and applies environment
// overrides. An empty path loads the default file if it exists; a missing
// default file is not an error, a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml", "":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvOutputDir); ok {
		c.Output.Dir = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvHTTPAddr); ok {
		c.HTTP.Addr = v
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if c.Render.MaxPixels <= 0 {
		return fmt.Errorf("render.max_pixels must be positive, got %d", c.Render.MaxPixels)
	}
	if q := c.JPEG.DefaultQuality; q < 0 || q > 100 {
		return fmt.Errorf("jpeg.default_quality must be between 0 and 100, got %d", q)
	}
	return nil
}

// LogLevel returns the parsed log level. Call after Validate.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
