// Package report renders the result of a comparison run as text, JSON or
// msgpack.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"yuvpsnr/internal/psnr"
	"yuvpsnr/internal/qmap"
	"yuvpsnr/internal/yuv"
)

// Output formats.
const (
	Text    = "text"
	JSON    = "json"
	Msgpack = "msgpack"
)

// ValidFormat reports whether f names a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case Text, JSON, Msgpack:
		return true
	}
	return false
}

// Stats is the sequence-level view of one granularity.
type Stats struct {
	Frames int `json:"frames"`

	MSE     [3]float64 `json:"mse"`      // mean per-frame MSE, Y U V
	PSNR    [3]float64 `json:"psnr"`     // mean per-frame PSNR
	MSEPSNR [3]float64 `json:"mse_psnr"` // PSNR of the mean MSE

	TotalMSE        float64 `json:"total_mse"`
	TotalPSNR       float64 `json:"total_psnr"`
	TotalMSEPSNR    float64 `json:"total_mse_psnr"`
	WeightedPSNR    float64 `json:"weighted_psnr"`
	WeightedMSEPSNR float64 `json:"weighted_mse_psnr"`
}

func newStats(a *psnr.Average) *Stats {
	if a == nil {
		return nil
	}
	return &Stats{
		Frames:          a.Frames,
		MSE:             a.MSE,
		PSNR:            a.PSNR,
		MSEPSNR:         a.MSEPSNR,
		TotalMSE:        a.TotalMSE,
		TotalPSNR:       a.TotalPSNR,
		TotalMSEPSNR:    a.TotalMSEPSNR,
		WeightedPSNR:    a.WeightedPSNR,
		WeightedMSEPSNR: psnr.Weighted(a.MSEPSNR),
	}
}

// Frame is one per-frame line.
type Frame struct {
	Index        int         `json:"frame"`
	PSNR         [3]float64  `json:"psnr"`
	TotalPSNR    float64     `json:"total_psnr"`
	WeightedPSNR float64     `json:"weighted_psnr"`
	ROIBlocks    int         `json:"roi_blocks,omitempty"`
	ROIPSNR      *[3]float64 `json:"roi_psnr,omitempty"`
	NonROIPSNR   *[3]float64 `json:"non_roi_psnr,omitempty"`
}

func newFrame(fq psnr.FrameQuality) Frame {
	f := Frame{
		Index:        fq.Frame,
		PSNR:         fq.Full.PSNR,
		TotalPSNR:    fq.Full.TotalPSNR,
		WeightedPSNR: fq.Full.WeightedPSNR,
		ROIBlocks:    fq.ROIBlocks,
	}
	if fq.ROI != nil {
		p := fq.ROI.PSNR
		f.ROIPSNR = &p
	}
	if fq.NonROI != nil {
		p := fq.NonROI.PSNR
		f.NonROIPSNR = &p
	}
	return f
}

// Map describes one written quality map.
type Map struct {
	Name   string      `json:"name"`
	Path   string      `json:"path"`
	Window qmap.Window `json:"window"`
}

// Report is everything shown to the user after a run.
type Report struct {
	RunID          string            `json:"run_id"`
	Version        string            `json:"version"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	Frames         int               `json:"frames"`
	Masked         bool              `json:"masked"`
	EmptyPartition string            `json:"empty_partition,omitempty"`
	Full           *Stats            `json:"frame"`
	ROI            *Stats            `json:"roi,omitempty"`
	NonROI         *Stats            `json:"non_roi,omitempty"`
	Deviation      psnr.Deviation    `json:"intra_frame_stddev"`
	Maps           []Map             `json:"maps,omitempty"`
	PerFrame       []Frame           `json:"per_frame,omitempty"`
	Counters       map[string]uint64 `json:"counters,omitempty"`
}

// New builds a report from an engine result. Per-frame lines are included
// when perFrame is set.
func New(g yuv.Grid, res *psnr.Result, perFrame bool) *Report {
	r := &Report{
		Width:     g.Width,
		Height:    g.Height,
		Frames:    res.Summary.Frames,
		Masked:    res.Summary.Masked,
		Full:      newStats(res.Summary.Full),
		ROI:       newStats(res.Summary.ROI),
		NonROI:    newStats(res.Summary.NonROI),
		Deviation: res.Deviation,
	}
	if perFrame {
		r.PerFrame = make([]Frame, len(res.Frames))
		for i, fq := range res.Frames {
			r.PerFrame[i] = newFrame(fq)
		}
	}
	return r
}

// Write renders r to w in format.
func Write(w io.Writer, r *Report, format string) error {
	switch format {
	case Text, "":
		return writeText(w, r)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case Msgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(r)
	}
	return fmt.Errorf("unknown report format %q", format)
}
