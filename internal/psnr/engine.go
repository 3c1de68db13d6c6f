package psnr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"yuvpsnr/internal/yuv"
)

// Engine compares a reference/test sequence frame by frame.
type Engine struct {
	Grid      yuv.Grid
	Partition Partition   // nil means WholeFrame
	Empty     EmptyPolicy // what an empty ROI/non-ROI partition does
	// Workers is the number of frames measured concurrently; values below
	// one mean one.
	Workers int
	Logger  *slog.Logger
}

// Result is everything a run produced.
type Result struct {
	Summary   Summary
	Frames    []FrameQuality // frame order
	LumaMSE   []float64      // per block, raster order, frames concatenated
	Deviation Deviation
}

// Run measures frames 0..frames-1 read from r. The first fatal error stops
// the remaining work and is returned.
func (e *Engine) Run(ctx context.Context, r FrameReader, frames int) (*Result, error) {
	g := e.Grid
	if g.Blocks() == 0 {
		return nil, yuv.Configf("grid", "no macroblocks in %dx%d", g.Width, g.Height)
	}
	if frames < 0 {
		return nil, fmt.Errorf("negative frame count %d", frames)
	}
	part := e.Partition
	if part == nil {
		part = WholeFrame{}
	}
	workers := max(1, min(e.Workers, frames))
	blocks := g.Blocks()

	res := &Result{
		Frames:  make([]FrameQuality, frames),
		LumaMSE: make([]float64, frames*blocks),
	}
	accs := make([]Accumulator, workers)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			buf := newFrameBuffers(g)
			defer buf.release()
			for n := range jobs {
				if runCtx.Err() != nil {
					continue
				}
				fq, err := e.frame(r, part, n, buf, res.LumaMSE[n*blocks:(n+1)*blocks])
				if err != nil {
					fail(err)
					continue
				}
				res.Frames[n] = fq
				accs[w] = accs[w].Add(fq)
			}
		}(w)
	}

feed:
	for n := 0; n < frames; n++ {
		select {
		case <-runCtx.Done():
			break feed
		case jobs <- n:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var acc Accumulator
	for _, a := range accs {
		acc = acc.Merge(a)
	}
	res.Summary = acc.Summary()

	dev, err := IntraFrameDeviation(res.LumaMSE, blocks)
	if err != nil {
		return nil, err
	}
	res.Deviation = dev
	return res, nil
}

func (e *Engine) frame(r FrameReader, part Partition, n int, buf *frameBuffers, lumaMSE []float64) (FrameQuality, error) {
	if err := r.ReadFrame(n, buf.ref, buf.test); err != nil {
		return FrameQuality{}, err
	}
	countBytes(len(buf.ref) + len(buf.test))

	roi, err := part.Load(n, buf.mask)
	if err != nil {
		return FrameQuality{}, err
	}
	ref, err := yuv.NewFrame(e.Grid, buf.ref)
	if err != nil {
		return FrameQuality{}, err
	}
	test, err := yuv.NewFrame(e.Grid, buf.test)
	if err != nil {
		return FrameQuality{}, err
	}

	fe, err := Accumulate(ref, test, roi)
	if err != nil {
		return FrameQuality{}, err
	}
	for i, b := range fe.Blocks {
		lumaMSE[i] = b.LumaMSE()
	}
	fq, err := Evaluate(n, fe, e.Empty)
	if err != nil {
		return fq, err
	}
	countFrame(fq)
	e.logger().Debug("frame compared",
		"frame", n,
		"psnr_y", fq.Full.PSNR[yuv.PlaneY],
		"psnr_u", fq.Full.PSNR[yuv.PlaneU],
		"psnr_v", fq.Full.PSNR[yuv.PlaneV],
		"roi_blocks", fq.ROIBlocks)
	return fq, nil
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
