package main

import (
	"log/slog"

	"github.com/nvr-ai/go-resample/config"
	"github.com/nvr-ai/go-resample/images"
	"github.com/spf13/cobra"
)

// addResizeFlags registers the flags shared by resize and batch. Their defaults
// are zero values so that only flags set on the command line override the config.
func addResizeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("width", 0, "Target width in pixels")
	f.Int("height", 0, "Target height in pixels")
	f.String("preset", "", "Target resolution preset (720p, 1080p, thumb, ...)")
	f.Bool("fit", false, "Preserve the source aspect ratio inside the target box")
	f.StringP("algorithm", "a", "", "Interpolation: nearest or bilinear (default bilinear)")
	f.IntP("workers", "w", 0, "Row workers per image (0 = one per CPU)")
	f.IntP("quality", "q", 0, "JPEG/WebP quality 1-100")
	f.Bool("lossless", false, "Encode WebP losslessly")
}

// loadSettings merges the config file, when given, with the changed flags,
// validates the result and installs the logger.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("preset") {
		cfg.Preset, _ = flags.GetString("preset")
	}
	if flags.Changed("fit") {
		cfg.Fit, _ = flags.GetBool("fit")
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm, _ = flags.GetString("algorithm")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("quality") {
		cfg.Encode.Quality, _ = flags.GetInt("quality")
	}
	if flags.Changed("lossless") {
		cfg.Encode.Lossless, _ = flags.GetBool("lossless")
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Lookup("concurrency") != nil && flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := cfg.Level()
	images.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return cfg, nil
}
