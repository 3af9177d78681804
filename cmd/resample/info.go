package main

import (
	"fmt"
	"os"

	"github.com/nvr-ai/go-resample/codec"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the decoded layout of an image",
		Args:  cobra.NoArgs,
		RunE:  runInfo,
	}
	cmd.Flags().StringP("input", "i", "", "Image file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("input")
	st, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	pb, f, err := codec.DecodeFile(path)
	if err != nil {
		return err
	}

	resamplable := "yes"
	if err := pb.Validate(); err != nil {
		resamplable = "no (" + err.Error() + ")"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:        %s\n", path)
	fmt.Fprintf(out, "Format:      %s\n", f)
	fmt.Fprintf(out, "Dimensions:  %d x %d\n", pb.Width, pb.Height)
	fmt.Fprintf(out, "Channels:    %d\n", pb.Channels)
	fmt.Fprintf(out, "Bit depth:   %d\n", pb.BitDepth)
	fmt.Fprintf(out, "File size:   %d bytes (%.1f MB)\n", st.Size(), float64(st.Size())/(1024*1024))
	fmt.Fprintf(out, "Checksum:    %s\n", pb.Checksum())
	fmt.Fprintf(out, "Resamplable: %s\n", resamplable)
	return nil
}
