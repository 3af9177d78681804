package images

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var algorithms = []Algorithm{NearestNeighbor, Bilinear}

// scenarioBuffer is the 2x2 RGB image [[rgb, white], [black, red]].
func scenarioBuffer() *PixelBuffer {
	return &PixelBuffer{
		Width:    2,
		Height:   2,
		BitDepth: 8,
		Channels: 3,
		Data: []byte{
			10, 120, 230, 255, 255, 255,
			0, 0, 0, 255, 0, 0,
		},
	}
}

func TestResizeErrors(t *testing.T) {
	valid := newTestBuffer(4, 4, 3, 1)

	tests := []struct {
		name   string
		src    *PixelBuffer
		width  int
		height int
		algo   Algorithm
		want   error
	}{
		{name: "nil source", src: nil, width: 2, height: 2, want: ErrEmptySource},
		{name: "empty source", src: &PixelBuffer{BitDepth: 8, Channels: 3}, width: 2, height: 2, want: ErrEmptySource},
		{name: "16 bit", src: &PixelBuffer{Width: 2, Height: 2, BitDepth: 16, Channels: 3, Data: make([]byte, 24)}, width: 2, height: 2, want: ErrUnsupportedBitDepth},
		{name: "gray", src: NewPixelBuffer(2, 2, 1), width: 4, height: 4, want: ErrUnsupportedChannelCount},
		{name: "size mismatch", src: &PixelBuffer{Width: 3, Height: 3, BitDepth: 8, Channels: 3, Data: make([]byte, 10)}, width: 2, height: 2, want: ErrBufferSizeMismatch},
		{name: "zero width", src: valid, width: 0, height: 2, want: ErrInvalidDimensions},
		{name: "zero height", src: valid, width: 2, height: 0, want: ErrInvalidDimensions},
		{name: "negative width", src: valid, width: -3, height: 2, want: ErrInvalidDimensions},
		{name: "wrapped source size", src: &PixelBuffer{Width: 1<<62 + 1, Height: 1, BitDepth: 8, Channels: 4, Data: make([]byte, 4)}, width: 1, height: 1, algo: Bilinear, want: ErrInvalidDimensions},
		{name: "wrapped target size", src: valid, width: 1 << 61, height: 8, want: ErrInvalidDimensions},
		{name: "wrapped target bilinear", src: valid, width: 8, height: 1 << 61, algo: Bilinear, want: ErrInvalidDimensions},
		{name: "unknown algorithm", src: valid, width: 2, height: 2, algo: Algorithm(42), want: ErrUnknownAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Resize(tt.src, tt.width, tt.height, tt.algo)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, out)
		})
	}
}

func TestResizeIdentity(t *testing.T) {
	for _, algo := range algorithms {
		for _, ch := range []int{3, 4} {
			for _, dims := range [][2]int{{1, 1}, {2, 2}, {7, 3}, {64, 48}, {129, 17}} {
				name := fmt.Sprintf("%s/%dx%dx%d", algo, dims[0], dims[1], ch)
				t.Run(name, func(t *testing.T) {
					src := newTestBuffer(dims[0], dims[1], ch, int64(dims[0]*dims[1]))
					out, err := Resize(src, src.Width, src.Height, algo)
					require.NoError(t, err)
					assert.True(t, src.Equal(out), "identity resize must be byte-for-byte equal")
					assert.NotSame(t, &src.Data[0], &out.Data[0], "identity resize must return a new buffer")
				})
			}
		}
	}
}

func TestResizeOutputLength(t *testing.T) {
	cases := []struct {
		name       string
		srcW, srcH int
		dstW, dstH int
	}{
		{name: "scale up", srcW: 4, srcH: 3, dstW: 16, dstH: 12},
		{name: "scale down", srcW: 40, srcH: 30, dstW: 10, dstH: 5},
		{name: "non-integer up", srcW: 3, srcH: 7, dstW: 10, dstH: 11},
		{name: "non-integer down", srcW: 17, srcH: 13, dstW: 5, dstH: 9},
		{name: "mixed", srcW: 10, srcH: 2, dstW: 3, dstH: 9},
		{name: "to single pixel", srcW: 9, srcH: 9, dstW: 1, dstH: 1},
		{name: "from single pixel", srcW: 1, srcH: 1, dstW: 5, dstH: 3},
	}

	for _, algo := range algorithms {
		for _, ch := range []int{3, 4} {
			for _, c := range cases {
				t.Run(fmt.Sprintf("%s/%d/%s", algo, ch, c.name), func(t *testing.T) {
					src := newTestBuffer(c.srcW, c.srcH, ch, 7)
					out, err := Resize(src, c.dstW, c.dstH, algo)
					require.NoError(t, err)
					assert.Equal(t, c.dstW, out.Width)
					assert.Equal(t, c.dstH, out.Height)
					assert.Equal(t, src.BitDepth, out.BitDepth)
					assert.Equal(t, src.Channels, out.Channels)
					assert.Len(t, out.Data, c.dstW*c.dstH*ch)
					assert.NoError(t, out.Validate())
				})
			}
		}
	}
}

func TestResizeDoesNotMutateSource(t *testing.T) {
	for _, algo := range algorithms {
		src := newTestBuffer(13, 11, 4, 3)
		before := src.Clone()
		_, err := Resize(src, 29, 5, algo)
		require.NoError(t, err)
		assert.True(t, before.Equal(src), "%s mutated the source", algo)
	}
}

func TestResizeNearestCopiesSourcePixels(t *testing.T) {
	src := newTestBuffer(9, 7, 4, 11)
	sourcePixels := make(map[string]bool, src.Width*src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			sourcePixels[string(src.Pixel(x, y))] = true
		}
	}

	for _, dims := range [][2]int{{23, 31}, {4, 3}, {9, 2}, {1, 1}} {
		out, err := Resize(src, dims[0], dims[1], NearestNeighbor)
		require.NoError(t, err)
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				assert.True(t, sourcePixels[string(out.Pixel(x, y))],
					"pixel (%d,%d) at %dx%d is not a source pixel", x, y, dims[0], dims[1])
			}
		}
	}
}

func TestResizeNearestEdgeClamp(t *testing.T) {
	// Odd ratios exercise the last row and column mapping.
	src := newTestBuffer(3, 3, 3, 5)
	out, err := Resize(src, 2, 7, NearestNeighbor)
	require.NoError(t, err)

	// Last output column maps to floor(1*3/2) = 1, last row to floor(6*3/7) = 2.
	assert.Equal(t, src.Pixel(1, 2), out.Pixel(1, 6))
	assert.Equal(t, src.Pixel(0, 0), out.Pixel(0, 0))
}

func TestResizeBilinearConvexity(t *testing.T) {
	src := newTestBuffer(11, 9, 4, 21)

	for _, dims := range [][2]int{{31, 20}, {5, 4}, {11, 3}, {2, 17}} {
		out, err := Resize(src, dims[0], dims[1], Bilinear)
		require.NoError(t, err)

		xs := axisTaps(out.Width, src.Width)
		ys := axisTaps(out.Height, src.Height)
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				p00 := src.Pixel(xs[x].i0, ys[y].i0)
				p10 := src.Pixel(xs[x].i1, ys[y].i0)
				p01 := src.Pixel(xs[x].i0, ys[y].i1)
				p11 := src.Pixel(xs[x].i1, ys[y].i1)
				got := out.Pixel(x, y)
				for c := range got {
					lo := min(p00[c], p10[c], p01[c], p11[c])
					hi := max(p00[c], p10[c], p01[c], p11[c])
					assert.GreaterOrEqual(t, got[c], lo)
					assert.LessOrEqual(t, got[c], hi)
				}
			}
		}
	}
}

func TestAxisTapsClampsEdges(t *testing.T) {
	for _, c := range [][2]int{{8, 3}, {3, 8}, {5, 5}, {1, 4}, {4, 1}, {100, 7}} {
		taps := axisTaps(c[0], c[1])
		require.Len(t, taps, c[0])
		for i, tp := range taps {
			assert.GreaterOrEqual(t, tp.i0, 0, "dst=%d src=%d i=%d", c[0], c[1], i)
			assert.Less(t, tp.i1, c[1], "dst=%d src=%d i=%d", c[0], c[1], i)
			assert.LessOrEqual(t, tp.i0, tp.i1)
			assert.GreaterOrEqual(t, tp.frac, float32(0))
			assert.Less(t, tp.frac, float32(1))
		}
	}
}

func TestResizeScenarioNearestBlocks(t *testing.T) {
	src := scenarioBuffer()
	out, err := Resize(src, 4, 4, NearestNeighbor)
	require.NoError(t, err)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, src.Pixel(x/2, y/2), out.Pixel(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestResizeScenarioBilinearMean(t *testing.T) {
	src := scenarioBuffer()
	out, err := Resize(src, 1, 1, Bilinear)
	require.NoError(t, err)
	require.Len(t, out.Data, 3)

	for c := 0; c < 3; c++ {
		sum := 0
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				sum += int(src.Pixel(x, y)[c])
			}
		}
		mean := float64(sum) / 4
		assert.InDelta(t, mean, float64(out.Data[c]), 1, "channel %d", c)
	}
}

func TestResizeScenarioAlphaIndependent(t *testing.T) {
	// Two RGBA images with identical alpha planes and unrelated color planes
	// must produce identical alpha planes.
	a := newTestBuffer(6, 5, 4, 100)
	b := newTestBuffer(6, 5, 4, 200)
	for i := 3; i < len(a.Data); i += 4 {
		b.Data[i] = a.Data[i]
	}
	black := NewPixelBuffer(6, 5, 4)
	for i := 3; i < len(a.Data); i += 4 {
		black.Data[i] = a.Data[i]
	}

	alpha := func(pb *PixelBuffer) []byte {
		out := make([]byte, 0, pb.Width*pb.Height)
		for i := 3; i < len(pb.Data); i += 4 {
			out = append(out, pb.Data[i])
		}
		return out
	}

	for _, algo := range algorithms {
		for _, dims := range [][2]int{{13, 7}, {3, 2}, {6, 5}} {
			outA, err := Resize(a, dims[0], dims[1], algo)
			require.NoError(t, err)
			outB, err := Resize(b, dims[0], dims[1], algo)
			require.NoError(t, err)
			outBlack, err := Resize(black, dims[0], dims[1], algo)
			require.NoError(t, err)

			assert.Equal(t, alpha(outA), alpha(outB), "%s %v", algo, dims)
			assert.Equal(t, alpha(outA), alpha(outBlack), "%s %v", algo, dims)
		}
	}
}

func TestResizeRGBNoAlphaChannel(t *testing.T) {
	src := newTestBuffer(4, 4, 3, 9)
	for _, algo := range algorithms {
		out, err := Resize(src, 6, 6, algo)
		require.NoError(t, err)
		assert.Equal(t, 3, out.Channels)
		assert.Len(t, out.Data, 6*6*3)
	}
}

func TestResizeParallelMatchesSerial(t *testing.T) {
	src := newTestBuffer(97, 83, 4, 42)
	for _, algo := range algorithms {
		serial, err := ResizeContext(context.Background(), src, 211, 157, Options{Algorithm: algo, Workers: 1})
		require.NoError(t, err)
		for _, workers := range []int{0, 2, 3, 8, 64} {
			par, err := ResizeContext(context.Background(), src, 211, 157, Options{Algorithm: algo, Workers: workers})
			require.NoError(t, err)
			assert.True(t, serial.Equal(par), "%s with %d workers differs from serial", algo, workers)
		}
	}
}

func TestResizeContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := newTestBuffer(64, 64, 3, 1)
	for _, workers := range []int{1, 4} {
		out, err := ResizeContext(ctx, src, 128, 128, Options{Algorithm: Bilinear, Workers: workers})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, out)
	}
}

func TestParallelRowsVisitsEveryRowOnce(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 7, 16} {
		rows := 101
		seen := make([]int, rows)
		err := parallelRows(context.Background(), rows, workers, func(y int) {
			seen[y]++
		})
		require.NoError(t, err)
		for y, n := range seen {
			assert.Equal(t, 1, n, "row %d with %d workers", y, workers)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 1, workerCount(8, 4), "small images run serially")
	assert.Equal(t, 1, workerCount(1, 10000))
	assert.Equal(t, 4, workerCount(4, 10000))
	assert.Equal(t, 2, workerCount(16, 2*minRowsPerWorker))
	assert.GreaterOrEqual(t, workerCount(0, 10000), 1)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
	}{
		{"nearest", NearestNeighbor},
		{"Nearest-Neighbor", NearestNeighbor},
		{"nn", NearestNeighbor},
		{"bilinear", Bilinear},
		{" BILINEAR ", Bilinear},
		{"linear", Bilinear},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAlgorithm("lanczos")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	assert.Equal(t, "nearest", NearestNeighbor.String())
	assert.Equal(t, "bilinear", Bilinear.String())
	assert.Equal(t, "unknown", Algorithm(9).String())
}

func TestRoundSample(t *testing.T) {
	assert.Equal(t, uint8(0), roundSample(-3))
	assert.Equal(t, uint8(0), roundSample(0.49))
	assert.Equal(t, uint8(1), roundSample(0.5))
	assert.Equal(t, uint8(191), roundSample(191.25))
	assert.Equal(t, uint8(255), roundSample(255.00003))
	assert.Equal(t, uint8(255), roundSample(300))
}
