// Package psnr measures block-wise MSE and PSNR between a reference and a
// test I420 sequence, optionally split by a per-macroblock ROI mask.
package psnr

import "math"

const (
	// Peak is the largest 8-bit sample value.
	Peak = 255
	// Identical is the PSNR reported for zero error, where the log is undefined.
	Identical = 100.0
)

// MSE returns ssd averaged over samples.
func MSE(ssd uint64, samples int) float64 {
	return float64(ssd) / float64(samples)
}

// FromMSE converts a mean squared error to PSNR in dB. Zero error maps to
// Identical.
func FromMSE(mse float64) float64 {
	if mse <= 0 {
		return Identical
	}
	return 10 * math.Log10(Peak*Peak/mse)
}

// Weighted combines per-plane PSNR values 6:1:1 (Y:U:V).
func Weighted(p [3]float64) float64 {
	return (6*p[0] + p[1] + p[2]) / 8
}
