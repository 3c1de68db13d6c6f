package psnr

import (
	"fmt"

	"yuvpsnr/internal/yuv"
)

// PlaneSSD holds a sum of squared differences per plane (Y, U, V).
type PlaneSSD [yuv.NumPlanes]uint64

// Sum adds the three planes together.
func (p PlaneSSD) Sum() uint64 { return p[yuv.PlaneY] + p[yuv.PlaneU] + p[yuv.PlaneV] }

func (p PlaneSSD) add(q PlaneSSD) PlaneSSD {
	for i := range p {
		p[i] += q[i]
	}
	return p
}

// BlockError is the distortion of one macroblock: the 16x16 luma window and
// the co-located 8x8 windows of U and V.
type BlockError struct {
	SSD PlaneSSD
	ROI bool
}

// LumaMSE is the block's luma mean squared error.
func (b BlockError) LumaMSE() float64 { return MSE(b.SSD[yuv.PlaneY], yuv.LumaBlockSamples) }

// FrameErrors is the per-block and per-frame distortion of one frame pair.
type FrameErrors struct {
	Blocks []BlockError // raster order
	Total  PlaneSSD

	// Set only for masked frames.
	Masked    bool
	ROI       PlaneSSD
	NonROI    PlaneSSD
	ROIBlocks int
}

// NonROIBlocks is the number of blocks outside the ROI.
func (f FrameErrors) NonROIBlocks() int { return len(f.Blocks) - f.ROIBlocks }

// Accumulate measures every block of test against ref. When roi is non-nil
// it holds one byte per block (nonzero = in ROI) and the totals are also
// split by ROI membership; no block is ever left out of Total. Frames on
// different grids or a mask of the wrong length are rejected.
func Accumulate(ref, test yuv.Frame, roi []byte) (FrameErrors, error) {
	g := ref.Grid()
	if test.Grid() != g {
		return FrameErrors{}, fmt.Errorf("test frame is %dx%d, reference is %dx%d",
			test.Grid().Width, test.Grid().Height, g.Width, g.Height)
	}
	if roi != nil && len(roi) != g.Blocks() {
		return FrameErrors{}, fmt.Errorf("mask plane is %d bytes, want %d", len(roi), g.Blocks())
	}
	r, t := ref.Bytes(), test.Bytes()
	cs, cstride := g.ChromaSize(), g.ChromaStride()

	fe := FrameErrors{Blocks: make([]BlockError, g.Blocks())}
	for i := range fe.Blocks {
		bx, by := g.BlockAt(i)
		var ssd PlaneSSD
		ssd[yuv.PlaneY] = blockSSD(r, t, g.LumaOffset(bx, by), g.Width, yuv.BlockSize)
		uoff := g.ChromaOffset(bx, by)
		ssd[yuv.PlaneU] = blockSSD(r, t, uoff, cstride, yuv.ChromaBlockSize)
		ssd[yuv.PlaneV] = blockSSD(r, t, uoff+cs, cstride, yuv.ChromaBlockSize)
		fe.Blocks[i].SSD = ssd
		fe.Total = fe.Total.add(ssd)
	}
	if roi == nil {
		return fe, nil
	}

	fe.Masked = true
	for i := range fe.Blocks {
		b := &fe.Blocks[i]
		if roi[i] != 0 {
			b.ROI = true
			fe.ROIBlocks++
			fe.ROI = fe.ROI.add(b.SSD)
		} else {
			fe.NonROI = fe.NonROI.add(b.SSD)
		}
	}
	return fe, nil
}

// blockSSD sums squared differences over a size x size window at off.
func blockSSD(ref, test []byte, off, stride, size int) uint64 {
	var sum uint64
	for y := 0; y < size; y++ {
		row := off + y*stride
		r := ref[row : row+size]
		t := test[row : row+size]
		for x := range r {
			d := int(r[x]) - int(t[x])
			sum += uint64(d * d)
		}
	}
	return sum
}
