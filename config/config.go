// Package config loads the settings shared by the doctree library and its
// command line tool. Settings come from defaults, then an optional YAML or
// TOML file, then DOCTREE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/doctree/docx"
	"github.com/tsawler/doctree/model"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCTREE_"

// Config holds the doctree settings.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// HeadingStylePrefix names the paragraph style given to headings on
	// write, followed by the level.
	HeadingStylePrefix string `yaml:"heading_style_prefix" toml:"heading_style_prefix"`

	// ImageDPI converts picture pixel sizes to document units.
	ImageDPI float64 `yaml:"image_dpi" toml:"image_dpi"`

	// Strict turns fidelity warnings into write errors.
	Strict bool `yaml:"strict" toml:"strict"`

	// OCRLanguage is the Tesseract language list used to describe pictures,
	// e.g. "eng" or "eng+fra".
	OCRLanguage string `yaml:"ocr_language" toml:"ocr_language"`

	// MaxPackageMB bounds the size of packages read from disk.
	MaxPackageMB int `yaml:"max_package_mb" toml:"max_package_mb"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		HeadingStylePrefix: docx.DefaultHeadingStylePrefix,
		ImageDPI:           model.DefaultImageDPI,
		OCRLanguage:        "eng",
		MaxPackageMB:       256,
	}
}

// Load reads a settings file over the defaults. The format follows the
// extension: .yaml, .yml or .toml.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// FromEnvironment returns the defaults with environment overrides applied.
func FromEnvironment() *Config {
	cfg := DefaultConfig()
	cfg.ApplyEnvironment()
	return cfg
}

// ApplyEnvironment overrides fields from DOCTREE_* variables. Values that do
// not parse are ignored.
func (c *Config) ApplyEnvironment() {
	if val := os.Getenv(EnvPrefix + "LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv(EnvPrefix + "HEADING_STYLE_PREFIX"); val != "" {
		c.HeadingStylePrefix = val
	}
	if val := os.Getenv(EnvPrefix + "IMAGE_DPI"); val != "" {
		if dpi, err := strconv.ParseFloat(val, 64); err == nil {
			c.ImageDPI = dpi
		}
	}
	if val := os.Getenv(EnvPrefix + "STRICT"); val != "" {
		if strict, err := strconv.ParseBool(val); err == nil {
			c.Strict = strict
		}
	}
	if val := os.Getenv(EnvPrefix + "OCR_LANGUAGE"); val != "" {
		c.OCRLanguage = val
	}
	if val := os.Getenv(EnvPrefix + "MAX_PACKAGE_MB"); val != "" {
		if mb, err := strconv.Atoi(val); err == nil {
			c.MaxPackageMB = mb
		}
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	var errs []error
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.HeadingStylePrefix == "" {
		errs = append(errs, errors.New("heading_style_prefix is required"))
	}
	if c.ImageDPI <= 0 {
		errs = append(errs, fmt.Errorf("image_dpi must be > 0, got %v", c.ImageDPI))
	}
	if c.MaxPackageMB <= 0 {
		errs = append(errs, fmt.Errorf("max_package_mb must be > 0, got %d", c.MaxPackageMB))
	}
	return errors.Join(errs...)
}

// MaxPackageBytes returns the package size limit in bytes.
func (c *Config) MaxPackageBytes() int64 { return int64(c.MaxPackageMB) * 1024 * 1024 }

// Logger returns a text logger writing to stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Options returns the parse and write options for these settings.
func (c *Config) Options() docx.Options {
	return docx.Options{
		Logger:             c.Logger(),
		HeadingStylePrefix: c.HeadingStylePrefix,
		Strict:             c.Strict,
		ImageDPI:           c.ImageDPI,
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return level, nil
}
