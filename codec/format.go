// Package codec adapts container formats (JPEG, PNG, WebP, BMP, TIFF) to and from
// images.PixelBuffer. All bitstream work is delegated to the codec libraries; this
// package only selects one and converts between image.Image and interleaved bytes.
package codec

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format represents a supported container format.
type Format string

// Format constants.
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG Format = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG Format = "png"
	// FormatWebP is the WebP image format.
	FormatWebP Format = "webp"
	// FormatBMP is the Windows bitmap format.
	FormatBMP Format = "bmp"
	// FormatTIFF is the TIFF image format.
	FormatTIFF Format = "tiff"
)

var (
	// ErrUnknownFormat is returned when a format cannot be determined or is not supported.
	ErrUnknownFormat = errors.New("codec: unknown image format")
	// ErrUnsupportedLayout is returned when a buffer's bit depth or channel count
	// cannot be represented.
	ErrUnsupportedLayout = errors.New("codec: unsupported pixel layout")
)

// Formats lists every supported format.
var Formats = []Format{FormatJPEG, FormatPNG, FormatWebP, FormatBMP, FormatTIFF}

// Extension returns the canonical file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tif"
	default:
		return "." + string(f)
	}
}

// ParseFormat maps a name such as "jpg" or "PNG" to a Format.
//
// Arguments:
//   - s: The format name, with or without a leading dot.
//
// Returns:
//   - Format: The parsed format.
//   - error: ErrUnknownFormat if the name is not recognized.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// FormatFromPath determines the format from a file extension.
//
// Arguments:
//   - path: The file path.
//
// Returns:
//   - Format: The format implied by the extension.
//   - error: ErrUnknownFormat if the extension is missing or unsupported.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.Wrapf(ErrUnknownFormat, "no extension in %q", path)
	}
	return ParseFormat(ext)
}

var (
	sigJPEG     = []byte{0xFF, 0xD8}
	sigPNG      = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	sigRIFF     = []byte("RIFF")
	sigWEBP     = []byte("WEBP")
	sigBMP      = []byte("BM")
	sigTIFFLE   = []byte{'I', 'I', 0x2A, 0x00}
	sigTIFFBE   = []byte{'M', 'M', 0x00, 0x2A}
	minSigBytes = 2
)

// DetectFormat identifies the format of encoded data from its leading signature bytes.
//
// Arguments:
//   - data: The encoded image bytes.
//
// Returns:
//   - Format: The detected format.
//   - error: ErrUnknownFormat if no signature matches.
func DetectFormat(data []byte) (Format, error) {
	if len(data) < minSigBytes {
		return "", errors.Wrapf(ErrUnknownFormat, "%d bytes is too short", len(data))
	}
	switch {
	case bytes.HasPrefix(data, sigPNG):
		return FormatPNG, nil
	case bytes.HasPrefix(data, sigJPEG):
		return FormatJPEG, nil
	case len(data) >= 12 && bytes.HasPrefix(data, sigRIFF) && bytes.Equal(data[8:12], sigWEBP):
		return FormatWebP, nil
	case bytes.HasPrefix(data, sigTIFFLE), bytes.HasPrefix(data, sigTIFFBE):
		return FormatTIFF, nil
	case bytes.HasPrefix(data, sigBMP):
		return FormatBMP, nil
	}
	return "", errors.Wrap(ErrUnknownFormat, "no matching signature")
}
