package psnr

import "yuvpsnr/internal/yuv"

// sums is the running total of per-frame statistics for one granularity.
type sums struct {
	frames   int
	mse      [yuv.NumPlanes]float64
	psnr     [yuv.NumPlanes]float64
	totalMSE float64
	total    float64
	weighted float64
}

func (s sums) add(q Quality) sums {
	s.frames++
	for p := range s.mse {
		s.mse[p] += q.MSE[p]
		s.psnr[p] += q.PSNR[p]
	}
	s.totalMSE += q.TotalMSE
	s.total += q.TotalPSNR
	s.weighted += q.WeightedPSNR
	return s
}

func (s sums) merge(o sums) sums {
	s.frames += o.frames
	for p := range s.mse {
		s.mse[p] += o.mse[p]
		s.psnr[p] += o.psnr[p]
	}
	s.totalMSE += o.totalMSE
	s.total += o.total
	s.weighted += o.weighted
	return s
}

func (s sums) average() *Average {
	if s.frames == 0 {
		return nil
	}
	n := float64(s.frames)
	a := &Average{Frames: s.frames}
	for p := range s.mse {
		a.MSE[p] = s.mse[p] / n
		a.PSNR[p] = s.psnr[p] / n
		a.MSEPSNR[p] = FromMSE(a.MSE[p])
	}
	a.TotalMSE = s.totalMSE / n
	a.TotalMSEPSNR = FromMSE(a.TotalMSE)
	a.TotalPSNR = s.total / n
	a.WeightedPSNR = s.weighted / n
	return a
}

// Accumulator carries sequence totals from frame to frame. It is a value:
// Add and Merge return the updated totals and leave the receiver alone, so
// independent accumulators can be built concurrently and reduced afterwards.
type Accumulator struct {
	masked bool
	full   sums
	roi    sums
	nonROI sums
}

// Add folds one frame's statistics into the totals.
func (a Accumulator) Add(fq FrameQuality) Accumulator {
	a.full = a.full.add(fq.Full)
	if fq.Masked {
		a.masked = true
	}
	if fq.ROI != nil {
		a.roi = a.roi.add(*fq.ROI)
	}
	if fq.NonROI != nil {
		a.nonROI = a.nonROI.add(*fq.NonROI)
	}
	return a
}

// Merge combines two accumulators built over disjoint frame sets.
func (a Accumulator) Merge(b Accumulator) Accumulator {
	a.masked = a.masked || b.masked
	a.full = a.full.merge(b.full)
	a.roi = a.roi.merge(b.roi)
	a.nonROI = a.nonROI.merge(b.nonROI)
	return a
}

// Frames is the number of frames added so far.
func (a Accumulator) Frames() int { return a.full.frames }

// Average holds sequence-level statistics for one granularity. Means of
// per-frame PSNR and PSNR of the mean MSE differ and are both kept.
type Average struct {
	Frames int

	MSE     [yuv.NumPlanes]float64 // mean per-frame MSE
	PSNR    [yuv.NumPlanes]float64 // mean per-frame PSNR
	MSEPSNR [yuv.NumPlanes]float64 // PSNR of the mean MSE

	TotalMSE     float64
	TotalPSNR    float64 // mean per-frame total PSNR
	TotalMSEPSNR float64 // PSNR of the mean total MSE
	WeightedPSNR float64 // mean per-frame 6:1:1 PSNR
}

// Summary is the sequence report. ROI and NonROI are nil when the run had no
// mask or no frame contributed to that partition.
type Summary struct {
	Frames int
	Masked bool
	Full   *Average
	ROI    *Average
	NonROI *Average
}

// Summary divides the totals by their frame counts.
func (a Accumulator) Summary() Summary {
	s := Summary{Frames: a.full.frames, Masked: a.masked, Full: a.full.average()}
	if a.masked {
		s.ROI = a.roi.average()
		s.NonROI = a.nonROI.average()
	}
	return s
}
