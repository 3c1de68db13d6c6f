// Package yuv describes planar I420 (YUV 4:2:0) frames and the 16x16
// macroblock grid laid over them.
package yuv

// Block dimensions in samples. A luma block of BlockSize x BlockSize covers
// a ChromaBlockSize x ChromaBlockSize window in each chroma plane.
const (
	BlockSize       = 16
	ChromaBlockSize = BlockSize / 2

	LumaBlockSamples   = BlockSize * BlockSize
	ChromaBlockSamples = ChromaBlockSize * ChromaBlockSize
)

// Plane indexes into per-plane arrays.
const (
	PlaneY = iota
	PlaneU
	PlaneV
	NumPlanes
)

// Grid is the macroblock layout of a width x height I420 frame.
type Grid struct {
	Width, Height          int
	BlocksWide, BlocksHigh int
}

// NewGrid returns the block grid for a frame. Width and height must be
// positive multiples of BlockSize; partial edge blocks are never processed.
func NewGrid(width, height int) (Grid, error) {
	if width <= 0 {
		return Grid{}, Configf("width", "must be positive, got %d", width)
	}
	if height <= 0 {
		return Grid{}, Configf("height", "must be positive, got %d", height)
	}
	if width%BlockSize != 0 {
		return Grid{}, Configf("width", "%d is not a multiple of %d", width, BlockSize)
	}
	if height%BlockSize != 0 {
		return Grid{}, Configf("height", "%d is not a multiple of %d", height, BlockSize)
	}
	return Grid{
		Width:      width,
		Height:     height,
		BlocksWide: width / BlockSize,
		BlocksHigh: height / BlockSize,
	}, nil
}

// Blocks is the number of macroblocks per frame.
func (g Grid) Blocks() int { return g.BlocksWide * g.BlocksHigh }

// LumaSize is the number of samples in the Y plane.
func (g Grid) LumaSize() int { return g.Width * g.Height }

// ChromaSize is the number of samples in each of the U and V planes.
func (g Grid) ChromaSize() int { return (g.Width / 2) * (g.Height / 2) }

// ChromaStride is the row stride of the U and V planes.
func (g Grid) ChromaStride() int { return g.Width / 2 }

// FrameSize is the byte length of one frame: Y, then U, then V.
func (g Grid) FrameSize() int { return g.LumaSize() + 2*g.ChromaSize() }

// MaskSize is the byte length of one ROI mask plane.
func (g Grid) MaskSize() int { return g.Blocks() }

// LumaOffset returns the offset of the top-left luma sample of block (bx, by).
func (g Grid) LumaOffset(bx, by int) int {
	return by*BlockSize*g.Width + bx*BlockSize
}

// ChromaOffset returns the offset of the top-left sample of block (bx, by)
// in the U plane. The V block sits ChromaSize bytes further on.
func (g Grid) ChromaOffset(bx, by int) int {
	return g.LumaSize() + by*ChromaBlockSize*g.ChromaStride() + bx*ChromaBlockSize
}

// BlockAt returns the grid coordinates of raster block index i.
func (g Grid) BlockAt(i int) (bx, by int) {
	return i % g.BlocksWide, i / g.BlocksWide
}
