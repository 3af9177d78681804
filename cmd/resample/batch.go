package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/nvr-ai/go-resample/codec"
	"github.com/nvr-ai/go-resample/config"
	"github.com/nvr-ai/go-resample/images"
	"github.com/nvr-ai/go-resample/profiler"
	"github.com/nvr-ai/go-resample/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resize every image in a directory",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	cmd.Flags().StringP("input", "i", "", "Input directory")
	cmd.Flags().StringP("output", "o", "", "Output directory (created if missing)")
	cmd.Flags().StringP("format", "f", "", "Output format (jpeg, png, webp, bmp, tiff); default keeps the input format")
	cmd.Flags().IntP("concurrency", "j", 0, "Images resized at once (default 4)")
	addResizeFlags(cmd)
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	inputDir, _ := cmd.Flags().GetString("input")
	outputDir, _ := cmd.Flags().GetString("output")

	files, err := util.LoadDirectoryImageFiles(inputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("no images found in %s", inputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	p := profiler.New()
	var done atomic.Int64

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Concurrency)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := processFile(ctx, cfg, file, outputDir, p); err != nil {
				return errors.Wrapf(err, "%s", file.Path)
			}
			done.Add(1)
			return nil
		})
	}
	err = g.Wait()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Resized %d/%d images into %s\n", done.Load(), len(files), outputDir)
	fmt.Fprint(out, p.Report())
	return err
}

// processFile decodes, resizes and encodes one file, timing each stage.
func processFile(ctx context.Context, cfg *config.Config, file util.ImageFile, outputDir string, p *profiler.Profiler) error {
	dec, err := codec.NewDecoder(file.Format)
	if err != nil {
		return err
	}
	stop := p.StartOperation("decode")
	src, err := dec.Decode(bytes.NewReader(file.Data))
	stop()
	if err != nil {
		return err
	}

	dst, err := resample(ctx, cfg, src, p)
	if err != nil {
		return err
	}

	outFormat := file.Format
	if cfg.Format != "" {
		if outFormat, err = codec.ParseFormat(cfg.Format); err != nil {
			return err
		}
	}
	path := outputPath(outputDir, file, outFormat)
	stop = p.StartOperation("encode")
	_, err = codec.EncodeFile(path, dst, cfg.Encode)
	stop()
	if err != nil {
		return err
	}
	images.Logger().Info("resized", "input", file.Path, "output", path, "size", dst.String())
	return nil
}

func outputPath(dir string, file util.ImageFile, f codec.Format) string {
	return filepath.Join(dir, file.Name()+f.Extension())
}
