// Package qmap turns per-block luma quality into an 8-bit map, one byte
// per macroblock, for visual inspection.
package qmap

import (
	"math"
	"slices"

	"yuvpsnr/internal/psnr"
	"yuvpsnr/internal/yuv"
)

// Percentiles used for bounds that are not given explicitly.
const (
	LowPercentile  = 10
	HighPercentile = 90
)

// Bounds is a requested PSNR window. A nil side is derived from the data.
type Bounds struct {
	Min *float64 `yaml:"min_psnr,omitempty" json:"min_psnr,omitempty"`
	Max *float64 `yaml:"max_psnr,omitempty" json:"max_psnr,omitempty"`
}

// Fixed returns bounds with both sides set.
func Fixed(lo, hi float64) Bounds { return Bounds{Min: &lo, Max: &hi} }

// Window is a resolved PSNR window.
type Window struct {
	Min float64 `json:"min_psnr"`
	Max float64 `json:"max_psnr"`
}

// Resolve fills unset sides of b from the distribution of blockPSNR:
// the 90th percentile for Max and the 10th for Min. A window that is empty
// or inverted is a configuration error.
func Resolve(blockPSNR []float64, b Bounds) (Window, error) {
	var sorted []float64
	if b.Min == nil || b.Max == nil {
		if len(blockPSNR) == 0 {
			return Window{}, yuv.Configf("map", "no blocks to derive PSNR bounds from")
		}
		sorted = slices.Clone(blockPSNR)
		slices.Sort(sorted)
	}
	var w Window
	if b.Min != nil {
		w.Min = *b.Min
	} else {
		w.Min = Percentile(sorted, LowPercentile)
	}
	if b.Max != nil {
		w.Max = *b.Max
	} else {
		w.Max = Percentile(sorted, HighPercentile)
	}
	if !(w.Max > w.Min) {
		return w, yuv.Configf("map", "max PSNR %.4f must exceed min PSNR %.4f", w.Max, w.Min)
	}
	return w, nil
}

// Percentile returns the pct-th percentile of sorted, interpolating
// linearly between the two nearest ranks.
func Percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	rank := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// Quantize clamps p into w and scales it linearly onto 0..255.
func Quantize(p float64, w Window) byte {
	p = min(max(p, w.Min), w.Max)
	return byte(math.Floor((p - w.Min) / (w.Max - w.Min) * 255))
}

// Generate maps each block's luma MSE to a byte, in input order, and returns
// the window it used.
func Generate(lumaMSE []float64, b Bounds) ([]byte, Window, error) {
	blockPSNR := make([]float64, len(lumaMSE))
	for i, m := range lumaMSE {
		blockPSNR[i] = psnr.FromMSE(m)
	}
	w, err := Resolve(blockPSNR, b)
	if err != nil {
		return nil, w, err
	}
	out := make([]byte, len(blockPSNR))
	for i, p := range blockPSNR {
		out[i] = Quantize(p, w)
	}
	return out, w, nil
}
