package images

import "github.com/pkg/errors"

// Resampling precondition failures. Callers compare with errors.Is; the returned
// errors are wrapped with the offending values.
var (
	// ErrEmptySource is returned when the source buffer has no pixel data.
	ErrEmptySource = errors.New("resize: source buffer is empty")
	// ErrUnsupportedBitDepth is returned when the source is not 8 bits per channel.
	ErrUnsupportedBitDepth = errors.New("resize: unsupported bit depth")
	// ErrUnsupportedChannelCount is returned when the source is not RGB or RGBA.
	ErrUnsupportedChannelCount = errors.New("resize: unsupported channel count")
	// ErrInvalidDimensions is returned for a zero or negative width or height.
	ErrInvalidDimensions = errors.New("resize: invalid dimensions")
	// ErrBufferSizeMismatch is returned when len(Data) disagrees with the metadata.
	ErrBufferSizeMismatch = errors.New("resize: buffer size does not match dimensions")
	// ErrUnknownAlgorithm is returned for an Algorithm value outside the defined set.
	ErrUnknownAlgorithm = errors.New("resize: unknown algorithm")
)
