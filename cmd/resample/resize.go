package main

import (
	"context"
	"fmt"

	"github.com/nvr-ai/go-resample/codec"
	"github.com/nvr-ai/go-resample/config"
	"github.com/nvr-ai/go-resample/images"
	"github.com/nvr-ai/go-resample/profiler"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newResizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Resize one image; the output format follows the output extension",
		Args:  cobra.NoArgs,
		RunE:  runResize,
	}
	cmd.Flags().StringP("input", "i", "", "Input image file")
	cmd.Flags().StringP("output", "o", "", "Output image file")
	addResizeFlags(cmd)
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runResize(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	src, _, err := codec.DecodeFile(inputPath)
	if err != nil {
		return err
	}
	dst, err := resample(cmd.Context(), cfg, src, nil)
	if err != nil {
		return errors.Wrapf(err, "resizing %s", inputPath)
	}
	if _, err := codec.EncodeFile(outputPath, dst, cfg.Encode); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Resized %dx%d -> %dx%d (%s): %s\n",
		src.Width, src.Height, dst.Width, dst.Height, cfg.Algorithm, outputPath)
	return nil
}

// resample resizes src to the configured target, recording the time under
// "resize" when p is non-nil.
func resample(ctx context.Context, cfg *config.Config, src *images.PixelBuffer, p *profiler.Profiler) (*images.PixelBuffer, error) {
	algo, err := cfg.ResizeAlgorithm()
	if err != nil {
		return nil, err
	}
	w, h, err := cfg.TargetFor(src.Width, src.Height)
	if err != nil {
		return nil, err
	}
	if p != nil {
		defer p.StartOperation("resize")()
	}
	return images.ResizeContext(ctx, src, w, h, images.Options{Algorithm: algo, Workers: cfg.Workers})
}
