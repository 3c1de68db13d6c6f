package psnr

import "yuvpsnr/internal/yuv"

// Granularity names the set of blocks a statistic covers.
type Granularity int

const (
	Full Granularity = iota
	ROI
	NonROI
)

func (g Granularity) String() string {
	switch g {
	case Full:
		return "frame"
	case ROI:
		return "roi"
	case NonROI:
		return "non-roi"
	default:
		return "unknown"
	}
}

// Quality is the MSE/PSNR of one frame over one set of blocks.
type Quality struct {
	MSE  [yuv.NumPlanes]float64
	PSNR [yuv.NumPlanes]float64

	// TotalMSE pools the SSD of all planes over every 4:2:0 sample.
	TotalMSE  float64
	TotalPSNR float64

	// WeightedPSNR is the 6:1:1 mix of the per-plane PSNR values. It is
	// not derivable from TotalPSNR.
	WeightedPSNR float64
}

// NewQuality converts ssd accumulated over blocks macroblocks into MSE and PSNR.
func NewQuality(ssd PlaneSSD, blocks int) Quality {
	luma := blocks * yuv.LumaBlockSamples
	chroma := blocks * yuv.ChromaBlockSamples

	var q Quality
	q.MSE[yuv.PlaneY] = MSE(ssd[yuv.PlaneY], luma)
	q.MSE[yuv.PlaneU] = MSE(ssd[yuv.PlaneU], chroma)
	q.MSE[yuv.PlaneV] = MSE(ssd[yuv.PlaneV], chroma)
	for p, m := range q.MSE {
		q.PSNR[p] = FromMSE(m)
	}
	q.TotalMSE = MSE(ssd.Sum(), luma+2*chroma)
	q.TotalPSNR = FromMSE(q.TotalMSE)
	q.WeightedPSNR = Weighted(q.PSNR)
	return q
}

// FrameQuality is every statistic of one frame.
type FrameQuality struct {
	Frame     int
	Blocks    int
	ROIBlocks int
	Masked    bool

	Full Quality
	// ROI and NonROI are nil when the frame is unmasked or the partition
	// was empty and skipped.
	ROI    *Quality
	NonROI *Quality
}

// Evaluate turns the distortion of frame n into MSE/PSNR statistics.
func Evaluate(n int, fe FrameErrors, policy EmptyPolicy) (FrameQuality, error) {
	fq := FrameQuality{
		Frame:  n,
		Blocks: len(fe.Blocks),
		Masked: fe.Masked,
		Full:   NewQuality(fe.Total, len(fe.Blocks)),
	}
	if !fe.Masked {
		return fq, nil
	}
	fq.ROIBlocks = fe.ROIBlocks

	part := func(g Granularity, ssd PlaneSSD, blocks int) (*Quality, error) {
		if blocks == 0 {
			if policy == SkipEmpty {
				return nil, nil
			}
			return nil, &EmptyPartitionError{Frame: n, Partition: g}
		}
		q := NewQuality(ssd, blocks)
		return &q, nil
	}
	var err error
	if fq.ROI, err = part(ROI, fe.ROI, fe.ROIBlocks); err != nil {
		return fq, err
	}
	if fq.NonROI, err = part(NonROI, fe.NonROI, fe.NonROIBlocks()); err != nil {
		return fq, err
	}
	return fq, nil
}
