package images

import (
	"bytes"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// SupportedBitDepth is the only channel sample width the engine resamples.
const SupportedBitDepth = 8

// PixelBuffer is a decoded raster image stored as a flat, row-major,
// channel-interleaved byte slice. Channel c of pixel (x, y) lives at
// (y*Width+x)*Channels + c.
type PixelBuffer struct {
	// The width of the image in pixels.
	Width int `json:"width" yaml:"width"`
	// The height of the image in pixels.
	Height int `json:"height" yaml:"height"`
	// The width of one channel sample in bits.
	BitDepth int `json:"bitDepth" yaml:"bitDepth"`
	// The number of interleaved channels per pixel (1 gray, 2 gray+alpha, 3 RGB, 4 RGBA).
	Channels int `json:"channels" yaml:"channels"`
	// The pixel data.
	Data []byte `json:"data" yaml:"data"`
}

// NewPixelBuffer allocates a zeroed 8-bit buffer.
//
// Arguments:
//   - width: The width of the buffer in pixels.
//   - height: The height of the buffer in pixels.
//   - channels: The number of interleaved channels per pixel.
//
// Returns:
//   - *PixelBuffer: The allocated buffer.
func NewPixelBuffer(width, height, channels int) *PixelBuffer {
	return &PixelBuffer{
		Width:    width,
		Height:   height,
		BitDepth: SupportedBitDepth,
		Channels: channels,
		Data:     make([]byte, width*height*channels),
	}
}

// IsEmpty reports whether the buffer carries no pixel data.
func (p *PixelBuffer) IsEmpty() bool {
	return p == nil || len(p.Data) == 0
}

// IsResamplable reports whether the buffer satisfies every precondition of Resize.
func (p *PixelBuffer) IsResamplable() bool {
	return p.Validate() == nil
}

// Validate returns the named error for the first violated resampling precondition.
//
// Returns:
//   - error: nil if the buffer can be resampled, otherwise one of ErrEmptySource,
//     ErrUnsupportedBitDepth, ErrUnsupportedChannelCount, ErrInvalidDimensions or
//     ErrBufferSizeMismatch.
func (p *PixelBuffer) Validate() error {
	if p.IsEmpty() {
		return ErrEmptySource
	}
	if p.BitDepth != SupportedBitDepth {
		return errors.Wrapf(ErrUnsupportedBitDepth, "bit depth %d", p.BitDepth)
	}
	if !isSupportedChannelCount(p.Channels) {
		return errors.Wrapf(ErrUnsupportedChannelCount, "%d channels", p.Channels)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return errors.Wrapf(ErrInvalidDimensions, "source %dx%d", p.Width, p.Height)
	}
	if byteLenOverflows(p.Width, p.Height, p.Channels) {
		return errors.Wrapf(ErrInvalidDimensions, "source %dx%dx%d overflows int", p.Width, p.Height, p.Channels)
	}
	if want := p.Len(); len(p.Data) != want {
		return errors.Wrapf(ErrBufferSizeMismatch, "have %d bytes, want %d", len(p.Data), want)
	}
	return nil
}

// Offset returns the byte offset of the first channel of pixel (x, y).
func (p *PixelBuffer) Offset(x, y int) int {
	return (y*p.Width + x) * p.Channels
}

// Stride returns the number of bytes in one row.
func (p *PixelBuffer) Stride() int {
	return p.Width * p.Channels
}

// Len returns the byte length implied by the metadata, Width*Height*Channels.
func (p *PixelBuffer) Len() int {
	return p.Width * p.Height * p.Channels
}

// Pixel returns the channel bytes of pixel (x, y). The returned slice aliases Data
// and is capacity-limited so appends never spill into the next pixel.
func (p *PixelBuffer) Pixel(x, y int) []byte {
	off := p.Offset(x, y)
	return p.Data[off : off+p.Channels : off+p.Channels]
}

// Clone returns a deep copy of the buffer.
func (p *PixelBuffer) Clone() *PixelBuffer {
	if p == nil {
		return nil
	}
	out := *p
	out.Data = append([]byte(nil), p.Data...)
	return &out
}

// Equal reports whether both buffers have the same metadata and bytes.
func (p *PixelBuffer) Equal(o *PixelBuffer) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Width == o.Width &&
		p.Height == o.Height &&
		p.BitDepth == o.BitDepth &&
		p.Channels == o.Channels &&
		bytes.Equal(p.Data, o.Data)
}

// String returns a short description like "640x480x3@8".
func (p *PixelBuffer) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%dx%dx%d@%d", p.Width, p.Height, p.Channels, p.BitDepth)
}

// isSupportedChannelCount reports whether the engine resamples n channels.
// Gray (1) and gray+alpha (2) are representable but not resampled.
func isSupportedChannelCount(n int) bool {
	return n == 3 || n == 4
}

// byteLenOverflows reports whether width*height*channels does not fit in an int.
// All arguments must be positive.
func byteLenOverflows(width, height, channels int) bool {
	return width > math.MaxInt/height/channels
}
