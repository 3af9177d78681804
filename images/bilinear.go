package images

import (
	"math"

	"github.com/chewxy/math32"
)

// tap describes where one output coordinate samples along a single axis:
// the two neighboring source indices and the fractional weight of the second.
type tap struct {
	// i0 is the base source index, floor of the back-mapped coordinate.
	i0 int
	// i1 is the +1 neighbor, clamped to the last valid index.
	i1 int
	// frac is the distance from i0 toward i1 in [0, 1).
	frac float32
}

// axisTaps computes the bilinear taps for every output index along one axis.
//
// The back-map is pixel-center aligned: g = (i+0.5)*srcLen/dstLen - 0.5, evaluated
// as an exact rational so equal lengths give g == i. g is clamped below at 0, and
// the +1 neighbor is clamped to srcLen-1 so the last row and column duplicate the
// edge pixel instead of reading past the buffer.
//
// Arguments:
//   - dstLen: Output length along the axis.
//   - srcLen: Source length along the axis.
//
// Returns:
//   - []tap: One tap per output index.
func axisTaps(dstLen, srcLen int) []tap {
	taps := make([]tap, dstLen)
	for i := range taps {
		g := float64((2*i+1)*srcLen)/float64(2*dstLen) - 0.5
		if g < 0 {
			g = 0
		}
		base := math.Floor(g)
		i0 := clampIndex(int(base), srcLen)
		taps[i] = tap{
			i0:   i0,
			i1:   clampIndex(i0+1, srcLen),
			frac: float32(g - base),
		}
	}
	return taps
}

// bilinearRows returns a row kernel that fills dst by bilinear interpolation.
//
// For each channel independently:
//
//	v = p00*(1-fx)*(1-fy) + p10*fx*(1-fy) + p01*(1-fx)*fy + p11*fx*fy
//
// rounded half-up. Alpha, when present, is blended like any color channel.
//
// Arguments:
//   - src: The validated source buffer.
//   - dst: The freshly allocated destination buffer.
//
// Returns:
//   - rowKernel: Writes row y of dst; safe to call concurrently for distinct rows.
func bilinearRows(src, dst *PixelBuffer) rowKernel {
	ch := src.Channels
	xs := axisTaps(dst.Width, src.Width)
	ys := axisTaps(dst.Height, src.Height)

	srcStride := src.Stride()
	dstStride := dst.Stride()

	return func(y int) {
		ty := ys[y]
		row0 := src.Data[ty.i0*srcStride : (ty.i0+1)*srcStride]
		row1 := src.Data[ty.i1*srcStride : (ty.i1+1)*srcStride]
		dstRow := dst.Data[y*dstStride : (y+1)*dstStride]

		fy := ty.frac
		for x, tx := range xs {
			fx := tx.frac
			w00 := (1 - fx) * (1 - fy)
			w10 := fx * (1 - fy)
			w01 := (1 - fx) * fy
			w11 := fx * fy

			o0 := tx.i0 * ch
			o1 := tx.i1 * ch
			out := dstRow[x*ch : x*ch+ch]
			for c := range out {
				v := float32(row0[o0+c])*w00 +
					float32(row0[o1+c])*w10 +
					float32(row1[o0+c])*w01 +
					float32(row1[o1+c])*w11
				out[c] = roundSample(v)
			}
		}
	}
}

// roundSample rounds half-up and clamps to the 8-bit range.
func roundSample(v float32) uint8 {
	r := math32.Floor(v + 0.5)
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}
