// Package runner wires a validated configuration to the frame source, the
// distortion engine, the quality maps and the report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"yuvpsnr/internal/config"
	"yuvpsnr/internal/psnr"
	"yuvpsnr/internal/qmap"
	"yuvpsnr/internal/report"
	"yuvpsnr/internal/source"
	"yuvpsnr/internal/version"
	"yuvpsnr/internal/yuv"
)

// Run compares the sequences named by cfg, writes the requested maps and
// renders the report to cfg.Report.Output, or stdout when that is empty or
// "-". cfg must have passed config.Validate. The report is returned even
// when a map could not be generated, together with that error.
//
// Run resets and reports the process-wide psnr counters, so concurrent Run
// calls in one process see each other's counts in their reports.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) (rep *report.Report, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	log := logger.With("run", id)

	g, err := yuv.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	src, err := source.Open(g, source.Paths{Reference: cfg.Reference, Test: cfg.Test, Mask: cfg.Mask}, cfg.Frames, log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close streams: %w", cerr)
		}
	}()
	if src.Frames() == 0 {
		return nil, yuv.Configf("frames", "no whole %dx%d frame in %s and %s", g.Width, g.Height, cfg.Reference, cfg.Test)
	}

	var part psnr.Partition = psnr.WholeFrame{}
	if src.HasMask() {
		part = psnr.MaskedFrame{Masks: src}
	} else {
		log.Warn("no ROI mask configured; ROI and non-ROI statistics omitted")
		if cfg.AbsoluteMap.Path != "" {
			log.Warn("absolute map requested without ROI mask; it covers every block")
		}
	}

	psnr.ResetCounters()
	eng := &psnr.Engine{
		Grid:      g,
		Partition: part,
		Empty:     cfg.EmptyPolicy(),
		Workers:   cfg.Workers,
		Logger:    log,
	}
	log.Info("comparing sequences",
		"version", version.String(),
		"width", g.Width,
		"height", g.Height,
		"frames", src.Frames(),
		"workers", cfg.Workers,
		"masked", src.HasMask())

	res, err := eng.Run(ctx, src, src.Frames())
	if err != nil {
		return nil, err
	}

	rep = report.New(g, res, cfg.Report.PerFrame)
	rep.RunID = id
	rep.Version = version.String()
	if rep.Masked {
		rep.EmptyPartition = cfg.EmptyPart
	}

	var mapErrs []error
	for _, m := range []struct {
		name string
		cfg  config.MapConfig
	}{{"auto", cfg.Map}, {"absolute", cfg.AbsoluteMap}} {
		if m.cfg.Path == "" {
			continue
		}
		w, err := writeMap(res.LumaMSE, m.cfg)
		if err != nil {
			mapErrs = append(mapErrs, fmt.Errorf("%s map: %w", m.name, err))
			continue
		}
		log.Info("quality map written", "map", m.name, "path", m.cfg.Path, "min_psnr", w.Min, "max_psnr", w.Max)
		rep.Maps = append(rep.Maps, report.Map{Name: m.name, Path: m.cfg.Path, Window: w})
	}

	counters := psnr.GetCounters()
	rep.Counters = counters
	if err := writeReport(rep, cfg.Report, stdout); err != nil {
		return rep, err
	}
	log.Info("comparison finished",
		"frames", counters["frames_compared"],
		"blocks", counters["blocks_compared"],
		"bytes_read", counters["bytes_read"])
	return rep, errors.Join(mapErrs...)
}

func writeMap(lumaMSE []float64, mc config.MapConfig) (qmap.Window, error) {
	data, w, err := qmap.Generate(lumaMSE, mc.Bounds)
	if err != nil {
		return w, err
	}
	return w, qmap.WriteFile(mc.Path, data)
}

func writeReport(rep *report.Report, rc config.ReportConfig, stdout io.Writer) (err error) {
	if rc.Output == "" || rc.Output == "-" {
		return report.Write(stdout, rep, rc.Format)
	}
	f, err := os.Create(rc.Output)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return report.Write(f, rep, rc.Format)
}
