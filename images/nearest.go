package images

// nearestRows returns a row kernel that fills dst by nearest-neighbor sampling.
//
// The source column for output x is floor(x / scaleW) with scaleW = dst.Width/src.Width,
// evaluated exactly as x*src.Width/dst.Width in integer arithmetic and clamped to
// the last column. Rows follow the same rule. Every output pixel is a verbatim
// copy of one source pixel.
//
// Arguments:
//   - src: The validated source buffer.
//   - dst: The freshly allocated destination buffer.
//
// Returns:
//   - rowKernel: Writes row y of dst; safe to call concurrently for distinct rows.
func nearestRows(src, dst *PixelBuffer) rowKernel {
	ch := src.Channels

	// Byte offset within a source row for each output column.
	cols := make([]int, dst.Width)
	for x := range cols {
		sx := clampIndex(x*src.Width/dst.Width, src.Width)
		cols[x] = sx * ch
	}

	srcStride := src.Stride()
	dstStride := dst.Stride()

	return func(y int) {
		sy := clampIndex(y*src.Height/dst.Height, src.Height)
		srcRow := src.Data[sy*srcStride : (sy+1)*srcStride]
		dstRow := dst.Data[y*dstStride : (y+1)*dstStride]

		for x, off := range cols {
			copy(dstRow[x*ch:x*ch+ch], srcRow[off:off+ch])
		}
	}
}
