// Package images provides a resampling engine that rescales decoded 8-bit
// interleaved pixel buffers with nearest-neighbor or bilinear interpolation.
package images

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Algorithm selects the resampling method used by Resize.
type Algorithm int

const (
	// NearestNeighbor copies the closest source pixel verbatim (fastest, blocky).
	NearestNeighbor Algorithm = iota
	// Bilinear blends the four nearest source pixels (smooth).
	Bilinear
)

// String returns the canonical name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case NearestNeighbor:
		return "nearest"
	case Bilinear:
		return "bilinear"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps a name such as "nearest" or "bilinear" to an Algorithm.
//
// Arguments:
//   - s: The algorithm name, case-insensitive. "nearest-neighbor" and "nn" are
//     accepted for NearestNeighbor, "linear" for Bilinear.
//
// Returns:
//   - Algorithm: The parsed algorithm.
//   - error: ErrUnknownAlgorithm if the name is not recognized.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest", "nearest-neighbor", "nearestneighbor", "nn":
		return NearestNeighbor, nil
	case "bilinear", "linear":
		return Bilinear, nil
	default:
		return 0, errors.Wrapf(ErrUnknownAlgorithm, "%q", s)
	}
}

// Options configures ResizeContext.
type Options struct {
	// Algorithm is the resampling method.
	Algorithm Algorithm
	// Workers is the number of goroutines computing rows. 0 uses runtime.NumCPU(),
	// 1 runs serially. Small images always run serially.
	Workers int
}

// rowKernel computes one output row of a resize.
type rowKernel func(y int)

// Resize rescales src to width x height with the given algorithm.
//
// Resize never mutates src. On success it returns a brand-new buffer with the
// requested dimensions and the source bit depth and channel count; on failure it
// returns a nil buffer and a named error, and nothing has been allocated.
//
// Arguments:
//   - src: The source buffer. Must be 8-bit RGB or RGBA.
//   - width: The target width, must be > 0.
//   - height: The target height, must be > 0.
//   - algo: The resampling algorithm.
//
// Returns:
//   - *PixelBuffer: The resized buffer.
//   - error: ErrEmptySource, ErrUnsupportedBitDepth, ErrUnsupportedChannelCount,
//     ErrInvalidDimensions, ErrBufferSizeMismatch or ErrUnknownAlgorithm.
//
// @example
//
//	thumb, err := images.Resize(src, 320, 180, images.Bilinear)
//	if err != nil {
//	    return err
//	}
func Resize(src *PixelBuffer, width, height int, algo Algorithm) (*PixelBuffer, error) {
	return ResizeContext(context.Background(), src, width, height, Options{Algorithm: algo})
}

// ResizeContext is Resize with cancellation and worker control. Rows are computed
// by a fixed pool of workers writing disjoint row ranges of the new buffer. If ctx
// is cancelled the partially written buffer is dropped and the wrapped context
// error is returned; the operation is all-or-nothing.
//
// Arguments:
//   - ctx: Cancellation, checked once per output row.
//   - src: The source buffer.
//   - width: The target width.
//   - height: The target height.
//   - opts: Algorithm and worker count.
//
// Returns:
//   - *PixelBuffer: The resized buffer.
//   - error: A precondition error (see Resize) or the context error.
func ResizeContext(ctx context.Context, src *PixelBuffer, width, height int, opts Options) (*PixelBuffer, error) {
	if err := validateResize(src, width, height, opts.Algorithm); err != nil {
		return nil, err
	}

	dst := &PixelBuffer{
		Width:    width,
		Height:   height,
		BitDepth: src.BitDepth,
		Channels: src.Channels,
		Data:     make([]byte, width*height*src.Channels),
	}

	var kernel rowKernel
	switch opts.Algorithm {
	case NearestNeighbor:
		kernel = nearestRows(src, dst)
	case Bilinear:
		kernel = bilinearRows(src, dst)
	}

	workers := workerCount(opts.Workers, height)
	log := Logger()
	start := time.Now()
	log.Debug("resize start",
		"src", src.String(),
		"width", width,
		"height", height,
		"algorithm", opts.Algorithm.String(),
		"workers", workers)

	if err := parallelRows(ctx, height, workers, kernel); err != nil {
		log.Warn("resize cancelled", "src", src.String(), "error", err)
		return nil, errors.Wrap(err, "resize cancelled")
	}

	log.Debug("resize done", "dst", dst.String(), "elapsed", time.Since(start))
	return dst, nil
}

// validateResize checks every precondition before any output is allocated.
func validateResize(src *PixelBuffer, width, height int, algo Algorithm) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidDimensions, "target %dx%d", width, height)
	}
	if byteLenOverflows(width, height, src.Channels) {
		return errors.Wrapf(ErrInvalidDimensions, "target %dx%dx%d overflows int", width, height, src.Channels)
	}
	if algo != NearestNeighbor && algo != Bilinear {
		return errors.Wrapf(ErrUnknownAlgorithm, "%d", int(algo))
	}
	return nil
}

// clampIndex restricts i to [0, n-1].
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
