// Package config loads and validates the resample CLI configuration.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/nvr-ai/go-resample/codec"
	"github.com/nvr-ai/go-resample/images"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the resize settings shared by every CLI command.
type Config struct {
	// Algorithm is "nearest" or "bilinear".
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	// Workers is the number of row workers per resize (0 = one per CPU).
	Workers int `json:"workers" yaml:"workers"`
	// Concurrency is the number of files resized at once by the batch command.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// Width and Height are the target dimensions. Ignored when Preset is set.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	// Preset is a resolution alias such as "720p".
	Preset string `json:"preset" yaml:"preset"`
	// Fit keeps the source aspect ratio inside the target box.
	Fit bool `json:"fit" yaml:"fit"`
	// Format forces the output format of the batch command. Empty keeps the input format.
	Format string `json:"format" yaml:"format"`
	// Encode holds the encoder settings.
	Encode codec.EncodeOptions `json:"encode" yaml:"encode"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Algorithm:   images.Bilinear.String(),
		Workers:     0,
		Concurrency: 4,
		Encode:      codec.EncodeOptions{Quality: codec.DefaultQuality},
		LogLevel:    "info",
	}
}

// Load reads a YAML configuration file on top of the defaults.
//
// Arguments:
//   - path: The YAML file path.
//
// Returns:
//   - *Config: The merged configuration.
//   - error: A read or parse error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := c.ResizeAlgorithm(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "workers must be >= 0, got %d", c.Workers)
	}
	if c.Concurrency < 1 {
		return errors.Wrapf(ErrInvalidConfig, "concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.Encode.Quality < 0 || c.Encode.Quality > 100 {
		return errors.Wrapf(ErrInvalidConfig, "quality must be in [0, 100], got %d", c.Encode.Quality)
	}
	if c.Format != "" {
		if _, err := codec.ParseFormat(c.Format); err != nil {
			return err
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Preset != "" {
		_, err := images.LookupResolution(c.Preset)
		return err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "target %dx%d: set width and height or a preset", c.Width, c.Height)
	}
	return nil
}

// ResizeAlgorithm parses the configured algorithm.
func (c *Config) ResizeAlgorithm() (images.Algorithm, error) {
	return images.ParseAlgorithm(c.Algorithm)
}

// Target returns the requested box: the preset when set, otherwise Width x Height.
func (c *Config) Target() (int, int, error) {
	if c.Preset != "" {
		res, err := images.LookupResolution(c.Preset)
		if err != nil {
			return 0, 0, err
		}
		return res.Pixels.Width, res.Pixels.Height, nil
	}
	if c.Width <= 0 || c.Height <= 0 {
		return 0, 0, errors.Wrapf(images.ErrInvalidDimensions, "target %dx%d", c.Width, c.Height)
	}
	return c.Width, c.Height, nil
}

// TargetFor returns the output dimensions for a source image, applying Fit.
func (c *Config) TargetFor(srcWidth, srcHeight int) (int, int, error) {
	w, h, err := c.Target()
	if err != nil {
		return 0, 0, err
	}
	if !c.Fit {
		return w, h, nil
	}
	return images.FitWithin(srcWidth, srcHeight, w, h)
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.Wrapf(ErrInvalidConfig, "unknown log level %q", c.LogLevel)
	}
}
