package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"yuvpsnr/internal/psnr"
	"yuvpsnr/internal/qmap"
	"yuvpsnr/internal/yuv"
)

// sampleResult builds a two-frame masked result for a 32x16 grid: the
// left block is in the ROI and carries luma error 25 (frame 0) and 9 (frame 1).
func sampleResult(t *testing.T) (yuv.Grid, *psnr.Result) {
	t.Helper()
	g, err := yuv.NewGrid(32, 16)
	require.NoError(t, err)

	var acc psnr.Accumulator
	res := &psnr.Result{}
	for n, lumaSSD := range []uint64{25 * 256, 9 * 256} {
		fe := psnr.FrameErrors{
			Blocks: []psnr.BlockError{
				{SSD: psnr.PlaneSSD{lumaSSD, 0, 0}, ROI: true},
				{},
			},
			Total:     psnr.PlaneSSD{lumaSSD, 0, 0},
			Masked:    true,
			ROI:       psnr.PlaneSSD{lumaSSD, 0, 0},
			ROIBlocks: 1,
		}
		fq, err := psnr.Evaluate(n, fe, psnr.FailEmpty)
		require.NoError(t, err)
		acc = acc.Add(fq)
		res.Frames = append(res.Frames, fq)
		for _, b := range fe.Blocks {
			res.LumaMSE = append(res.LumaMSE, b.LumaMSE())
		}
	}
	res.Summary = acc.Summary()
	res.Deviation, err = psnr.IntraFrameDeviation(res.LumaMSE, g.Blocks())
	require.NoError(t, err)
	return g, res
}

func TestNew(t *testing.T) {
	g, res := sampleResult(t)
	r := New(g, res, true)

	assert.Equal(t, 2, r.Frames)
	assert.True(t, r.Masked)
	require.NotNil(t, r.ROI)
	require.NotNil(t, r.NonROI)
	assert.Equal(t, 17.0, r.ROI.MSE[0])
	assert.InDelta(t, psnr.FromMSE(17), r.ROI.MSEPSNR[0], 1e-12)
	assert.Equal(t, 100.0, r.NonROI.PSNR[0])
	assert.InDelta(t, psnr.Weighted(r.Full.MSEPSNR), r.Full.WeightedMSEPSNR, 1e-12)

	require.Len(t, r.PerFrame, 2)
	require.NotNil(t, r.PerFrame[1].ROIPSNR)
	assert.InDelta(t, psnr.FromMSE(9), r.PerFrame[1].ROIPSNR[0], 1e-12)
	assert.Equal(t, 1, r.PerFrame[0].ROIBlocks)

	assert.Nil(t, New(g, res, false).PerFrame)
}

func TestWriteText(t *testing.T) {
	g, res := sampleResult(t)
	r := New(g, res, true)
	r.RunID = "run-1"
	r.Version = "build 7"
	r.Maps = []Map{{Name: "auto", Path: "map.bin", Window: qmap.Window{Min: 30, Max: 45}}}
	r.Counters = map[string]uint64{"frames_compared": 2, "bytes_read": 10}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, Text))
	out := buf.String()

	for _, want := range []string{
		"Run run-1 (build 7)",
		"Sequence 32x16, 2 frames, ROI mask",
		"Frame 000: PSNR_Y:",
		"ROI_Y:",
		"NONROI_Y:100.000000",
		"MSE-based frame",
		"MSE-based roi",
		"MSE-based non-roi",
		"Avg per-frame frame",
		"Avg per-frame roi",
		"Avg per-frame non-roi",
		"Intra-frame std dev of block luma",
		"Quality map auto:",
		"(30.0000..45.0000 dB)",
		"Counters: frames_compared=2 bytes_read=10",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 2, strings.Count(out, "Frame 0"))
}

func TestWriteTextWithoutMask(t *testing.T) {
	r := &Report{Width: 16, Height: 16, Frames: 1, Full: &Stats{Frames: 1}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, ""))
	out := buf.String()
	assert.Contains(t, out, "no ROI mask")
	assert.NotContains(t, out, "roi ")
	assert.NotContains(t, out, "Run ")
}

func TestWriteJSON(t *testing.T) {
	g, res := sampleResult(t)
	r := New(g, res, false)
	r.RunID = "abc"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, JSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abc", got["run_id"])
	assert.Equal(t, float64(2), got["frames"])
	assert.Contains(t, got, "roi")
	assert.Contains(t, got, "intra_frame_stddev")
	assert.NotContains(t, got, "per_frame")
}

func TestWriteMsgpack(t *testing.T) {
	g, res := sampleResult(t)
	r := New(g, res, true)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, Msgpack))

	dec := msgpack.NewDecoder(&buf)
	dec.SetCustomStructTag("json")
	var got Report
	require.NoError(t, dec.Decode(&got))
	assert.Equal(t, r.Frames, got.Frames)
	require.NotNil(t, got.ROI)
	assert.Equal(t, r.ROI.MSE, got.ROI.MSE)
	assert.Len(t, got.PerFrame, 2)
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, &Report{}, "xml"))
	assert.True(t, ValidFormat(Msgpack))
	assert.False(t, ValidFormat("xml"))
}
