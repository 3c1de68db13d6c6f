package psnr

import (
	"fmt"
	"math"
)

// Deviation is the mean, over frames, of the spread of per-block luma
// quality inside each frame.
type Deviation struct {
	MSE  float64 `json:"mse"`
	PSNR float64 `json:"psnr"`
}

// IntraFrameDeviation computes, for each frame of lumaMSE (blocksPerFrame
// values per frame, frames concatenated), the population standard deviation
// of block MSE and of block PSNR, and averages both across frames.
func IntraFrameDeviation(lumaMSE []float64, blocksPerFrame int) (Deviation, error) {
	if blocksPerFrame <= 0 {
		return Deviation{}, fmt.Errorf("blocks per frame must be positive, got %d", blocksPerFrame)
	}
	if len(lumaMSE)%blocksPerFrame != 0 {
		return Deviation{}, fmt.Errorf("%d block values do not split into frames of %d", len(lumaMSE), blocksPerFrame)
	}
	frames := len(lumaMSE) / blocksPerFrame
	if frames == 0 {
		return Deviation{}, nil
	}

	var d Deviation
	blockPSNR := make([]float64, blocksPerFrame)
	for f := 0; f < frames; f++ {
		mse := lumaMSE[f*blocksPerFrame : (f+1)*blocksPerFrame]
		for i, m := range mse {
			blockPSNR[i] = FromMSE(m)
		}
		d.MSE += stddev(mse)
		d.PSNR += stddev(blockPSNR)
	}
	d.MSE /= float64(frames)
	d.PSNR /= float64(frames)
	return d, nil
}

func stddev(v []float64) float64 {
	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	var ss float64
	for _, x := range v {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(v)))
}
