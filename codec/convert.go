package codec

import (
	"image"
	"image/color"

	"github.com/nvr-ai/go-resample/images"
	"github.com/pkg/errors"
)

// opaquer is implemented by the standard image types that can report full opacity.
type opaquer interface {
	Opaque() bool
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(opaquer); ok {
		return o.Opaque()
	}
	return false
}

// layoutOf picks the channel count and bit depth a decoded image is stored with:
// gray stays 1 channel, opaque color becomes RGB, translucent color becomes
// non-premultiplied RGBA, and 16-bit sources keep 16 bits per sample.
func layoutOf(img image.Image) (channels, depth int) {
	switch img.(type) {
	case *image.Gray:
		return 1, 8
	case *image.Gray16:
		return 1, 16
	case *image.RGBA64, *image.NRGBA64:
		if isOpaque(img) {
			return 3, 16
		}
		return 4, 16
	}
	if isOpaque(img) {
		return 3, 8
	}
	return 4, 8
}

// FromImage converts a decoded image into an interleaved PixelBuffer.
//
// Arguments:
//   - img: The decoded image. Its bounds may have a non-zero origin.
//
// Returns:
//   - *images.PixelBuffer: A new buffer; 16-bit samples are stored big-endian.
func FromImage(img image.Image) *images.PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	ch, depth := layoutOf(img)
	bps := depth / 8

	pb := &images.PixelBuffer{
		Width:    w,
		Height:   h,
		BitDepth: depth,
		Channels: ch,
		Data:     make([]byte, w*h*ch*bps),
	}

	// The common decoder output types copy rows directly.
	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pb.Data[y*w:(y+1)*w], src.Pix[off:off+w])
		}
		return pb
	case *image.NRGBA:
		if ch == 4 {
			for y := 0; y < h; y++ {
				off := src.PixOffset(b.Min.X, b.Min.Y+y)
				copy(pb.Data[y*w*4:(y+1)*w*4], src.Pix[off:off+w*4])
			}
			return pb
		}
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			switch {
			case depth == 8 && ch == 1:
				pb.Data[i] = color.GrayModel.Convert(c).(color.Gray).Y
				i++
			case depth == 8:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				pb.Data[i], pb.Data[i+1], pb.Data[i+2] = n.R, n.G, n.B
				if ch == 4 {
					pb.Data[i+3] = n.A
				}
				i += ch
			case ch == 1:
				g := color.Gray16Model.Convert(c).(color.Gray16).Y
				i = put16(pb.Data, i, g)
			default:
				n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
				i = put16(pb.Data, i, n.R)
				i = put16(pb.Data, i, n.G)
				i = put16(pb.Data, i, n.B)
				if ch == 4 {
					i = put16(pb.Data, i, n.A)
				}
			}
		}
	}
	return pb
}

func put16(dst []byte, i int, v uint16) int {
	dst[i] = byte(v >> 8)
	dst[i+1] = byte(v)
	return i + 2
}

func get16(src []byte, i int) uint16 {
	return uint16(src[i])<<8 | uint16(src[i+1])
}

// checkLayout verifies that pb can be represented as an image.Image.
func checkLayout(pb *images.PixelBuffer) error {
	if pb.IsEmpty() {
		return errors.Wrap(ErrUnsupportedLayout, "empty buffer")
	}
	if pb.BitDepth != 8 && pb.BitDepth != 16 {
		return errors.Wrapf(ErrUnsupportedLayout, "bit depth %d", pb.BitDepth)
	}
	if pb.Channels < 1 || pb.Channels > 4 {
		return errors.Wrapf(ErrUnsupportedLayout, "%d channels", pb.Channels)
	}
	if pb.Width <= 0 || pb.Height <= 0 {
		return errors.Wrapf(ErrUnsupportedLayout, "dimensions %dx%d", pb.Width, pb.Height)
	}
	if want := pb.Width * pb.Height * pb.Channels * pb.BitDepth / 8; len(pb.Data) != want {
		return errors.Wrapf(ErrUnsupportedLayout, "have %d bytes, want %d", len(pb.Data), want)
	}
	return nil
}

// ToImage converts a PixelBuffer into an image.Image suitable for the encoders.
// Gray buffers become *image.Gray or *image.Gray16, everything else becomes
// *image.NRGBA or *image.NRGBA64 (RGB buffers are fully opaque).
//
// Arguments:
//   - pb: The buffer to convert.
//
// Returns:
//   - image.Image: A new image that does not alias pb.Data.
//   - error: ErrUnsupportedLayout if pb cannot be represented.
func ToImage(pb *images.PixelBuffer) (image.Image, error) {
	if err := checkLayout(pb); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, pb.Width, pb.Height)
	n := pb.Width * pb.Height

	if pb.BitDepth == 8 {
		if pb.Channels == 1 {
			out := image.NewGray(rect)
			copy(out.Pix, pb.Data)
			return out, nil
		}
		out := image.NewNRGBA(rect)
		for p := 0; p < n; p++ {
			s := pb.Data[p*pb.Channels : (p+1)*pb.Channels]
			d := out.Pix[p*4 : p*4+4]
			switch pb.Channels {
			case 2:
				d[0], d[1], d[2], d[3] = s[0], s[0], s[0], s[1]
			case 3:
				d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xFF
			default:
				copy(d, s)
			}
		}
		return out, nil
	}

	if pb.Channels == 1 {
		out := image.NewGray16(rect)
		copy(out.Pix, pb.Data)
		return out, nil
	}
	out := image.NewNRGBA64(rect)
	for p := 0; p < n; p++ {
		si := p * pb.Channels * 2
		var r, g, b, a uint16
		switch pb.Channels {
		case 2:
			r = get16(pb.Data, si)
			g, b, a = r, r, get16(pb.Data, si+2)
		case 3:
			r, g, b, a = get16(pb.Data, si), get16(pb.Data, si+2), get16(pb.Data, si+4), 0xFFFF
		default:
			r, g, b, a = get16(pb.Data, si), get16(pb.Data, si+2), get16(pb.Data, si+4), get16(pb.Data, si+6)
		}
		out.SetNRGBA64(p%pb.Width, p/pb.Width, color.NRGBA64{R: r, G: g, B: b, A: a})
	}
	return out, nil
}

// dropAlpha returns a copy of an 8-bit buffer without its alpha channel. Buffers
// without alpha are returned unchanged.
func dropAlpha(pb *images.PixelBuffer) *images.PixelBuffer {
	if pb.BitDepth != 8 || (pb.Channels != 2 && pb.Channels != 4) {
		return pb
	}
	ch := pb.Channels - 1
	out := &images.PixelBuffer{
		Width:    pb.Width,
		Height:   pb.Height,
		BitDepth: pb.BitDepth,
		Channels: ch,
		Data:     make([]byte, pb.Width*pb.Height*ch),
	}
	for p := 0; p < pb.Width*pb.Height; p++ {
		copy(out.Data[p*ch:(p+1)*ch], pb.Data[p*pb.Channels:p*pb.Channels+ch])
	}
	return out
}
