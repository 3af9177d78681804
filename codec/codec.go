package codec

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/nvr-ai/go-resample/images"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultQuality is the lossy encoder quality used when EncodeOptions.Quality is 0.
const DefaultQuality = 90

// Decoder turns an encoded bitstream into a fully materialized PixelBuffer.
type Decoder interface {
	Decode(r io.Reader) (*images.PixelBuffer, error)
}

// Encoder serializes a PixelBuffer into a container format.
type Encoder interface {
	Encode(w io.Writer, pb *images.PixelBuffer) error
}

// EncodeOptions configures the encoders.
type EncodeOptions struct {
	// Quality is the lossy quality for JPEG and WebP in [1, 100]. 0 selects DefaultQuality.
	Quality int `json:"quality" yaml:"quality"`
	// Lossless selects lossless WebP encoding.
	Lossless bool `json:"lossless" yaml:"lossless"`
}

func (o EncodeOptions) quality() int {
	switch {
	case o.Quality <= 0:
		return DefaultQuality
	case o.Quality > 100:
		return 100
	default:
		return o.Quality
	}
}

// imageDecoder adapts a library decode function to Decoder.
type imageDecoder struct {
	format Format
	decode func(io.Reader) (image.Image, error)
}

func (d imageDecoder) Decode(r io.Reader) (*images.PixelBuffer, error) {
	img, err := d.decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", d.format)
	}
	return FromImage(img), nil
}

// imageEncoder adapts a library encode function to Encoder.
type imageEncoder struct {
	format Format
	// alpha is false for formats that cannot store an alpha channel.
	alpha  bool
	encode func(io.Writer, image.Image) error
}

func (e imageEncoder) Encode(w io.Writer, pb *images.PixelBuffer) error {
	if !e.alpha {
		pb = dropAlpha(pb)
	}
	img, err := ToImage(pb)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", e.format)
	}
	if err := e.encode(w, img); err != nil {
		return errors.Wrapf(err, "failed to encode %s", e.format)
	}
	return nil
}

// NewDecoder returns the decoder for a format.
//
// Arguments:
//   - f: The container format.
//
// Returns:
//   - Decoder: The decoder.
//   - error: ErrUnknownFormat if f is not supported.
func NewDecoder(f Format) (Decoder, error) {
	switch f {
	case FormatJPEG:
		return imageDecoder{format: f, decode: jpeg.Decode}, nil
	case FormatPNG:
		return imageDecoder{format: f, decode: png.Decode}, nil
	case FormatWebP:
		return imageDecoder{format: f, decode: webp.Decode}, nil
	case FormatBMP:
		return imageDecoder{format: f, decode: bmp.Decode}, nil
	case FormatTIFF:
		return imageDecoder{format: f, decode: tiff.Decode}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "no decoder for %q", f)
	}
}

// NewEncoder returns the encoder for a format. JPEG cannot store alpha, so its
// encoder drops the alpha channel of gray+alpha and RGBA buffers.
//
// Arguments:
//   - f: The container format.
//   - opts: Quality settings for lossy formats.
//
// Returns:
//   - Encoder: The encoder.
//   - error: ErrUnknownFormat if f is not supported.
func NewEncoder(f Format, opts EncodeOptions) (Encoder, error) {
	switch f {
	case FormatJPEG:
		q := opts.quality()
		return imageEncoder{format: f, encode: func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
		}}, nil
	case FormatPNG:
		return imageEncoder{format: f, alpha: true, encode: png.Encode}, nil
	case FormatWebP:
		q := float32(opts.quality())
		lossless := opts.Lossless
		return imageEncoder{format: f, alpha: true, encode: func(w io.Writer, img image.Image) error {
			return webp.Encode(w, img, &webp.Options{Lossless: lossless, Quality: q})
		}}, nil
	case FormatBMP:
		return imageEncoder{format: f, alpha: true, encode: bmp.Encode}, nil
	case FormatTIFF:
		return imageEncoder{format: f, alpha: true, encode: func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "no encoder for %q", f)
	}
}

// DecodeBytes detects the format of data from its signature and decodes it.
//
// Arguments:
//   - data: The encoded image.
//
// Returns:
//   - *images.PixelBuffer: The decoded buffer.
//   - Format: The detected format.
//   - error: ErrUnknownFormat or a decoder error.
func DecodeBytes(data []byte) (*images.PixelBuffer, Format, error) {
	f, err := DetectFormat(data)
	if err != nil {
		return nil, "", err
	}
	dec, err := NewDecoder(f)
	if err != nil {
		return nil, "", err
	}
	pb, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, f, err
	}
	return pb, f, nil
}

// DecodeFile reads and decodes an image file. The format comes from the file
// extension; when the extension is missing or unknown the content signature is used.
//
// Arguments:
//   - path: The image file path.
//
// Returns:
//   - *images.PixelBuffer: The decoded buffer.
//   - Format: The format that was decoded.
//   - error: A read, detection or decode error.
func DecodeFile(path string) (*images.PixelBuffer, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to read image")
	}

	f, err := FormatFromPath(path)
	if err != nil {
		images.Logger().Debug("extension lookup failed, sniffing content", "path", path, "error", err)
		return DecodeBytes(data)
	}
	dec, err := NewDecoder(f)
	if err != nil {
		return nil, "", err
	}
	pb, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, f, errors.Wrapf(err, "%s", path)
	}
	return pb, f, nil
}

// Encode serializes pb into a new byte slice.
func Encode(pb *images.PixelBuffer, f Format, opts EncodeOptions) ([]byte, error) {
	enc, err := NewEncoder(f, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, pb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeFile encodes pb in the format implied by the path's extension and writes
// it. The file is written only after encoding succeeds.
//
// Arguments:
//   - path: The destination path.
//   - pb: The buffer to encode.
//   - opts: Encoder settings.
//
// Returns:
//   - Format: The format written.
//   - error: A format, encode or write error.
func EncodeFile(path string, pb *images.PixelBuffer, opts EncodeOptions) (Format, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return "", err
	}
	data, err := Encode(pb, f, opts)
	if err != nil {
		return f, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return f, errors.Wrap(err, "failed to write image")
	}
	return f, nil
}
