package report

import (
	"fmt"
	"io"
	"strings"
)

const rule = "==============================================================================="

// textWriter remembers the first write error so the layout code stays flat.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func writeText(w io.Writer, r *Report) error {
	t := &textWriter{w: w}

	if r.RunID != "" {
		t.printf("Run %s (%s)\n", r.RunID, r.Version)
	}
	mask := "no ROI mask"
	if r.Masked {
		mask = "ROI mask"
		if r.EmptyPartition != "" {
			mask += ", empty partitions: " + r.EmptyPartition
		}
	}
	t.printf("Sequence %dx%d, %d frames, %s\n", r.Width, r.Height, r.Frames, mask)

	for _, f := range r.PerFrame {
		t.printf("Frame %03d: PSNR_Y:%f, PSNR_U:%f, PSNR_V:%f, PSNR:%f, PSNR_611:%f",
			f.Index, f.PSNR[0], f.PSNR[1], f.PSNR[2], f.TotalPSNR, f.WeightedPSNR)
		if f.ROIPSNR != nil {
			t.printf(", ROI_Y:%f", f.ROIPSNR[0])
		}
		if f.NonROIPSNR != nil {
			t.printf(", NONROI_Y:%f", f.NonROIPSNR[0])
		}
		t.printf("\n")
	}

	t.printf("%s\n", rule)
	t.printf("%-22s %7s %10s %10s %10s %10s %10s\n", "", "frames", "PSNR_Y", "PSNR_U", "PSNR_V", "PSNR", "PSNR_611")
	rows := []struct {
		name string
		s    *Stats
	}{{"frame", r.Full}, {"roi", r.ROI}, {"non-roi", r.NonROI}}

	for _, row := range rows {
		if row.s == nil {
			continue
		}
		s := row.s
		t.printf("%-22s %7d %10.4f %10.4f %10.4f %10.4f %10.4f\n", "MSE-based "+row.name, s.Frames,
			s.MSEPSNR[0], s.MSEPSNR[1], s.MSEPSNR[2], s.TotalMSEPSNR, s.WeightedMSEPSNR)
	}
	for _, row := range rows {
		if row.s == nil {
			continue
		}
		s := row.s
		t.printf("%-22s %7d %10.4f %10.4f %10.4f %10.4f %10.4f\n", "Avg per-frame "+row.name, s.Frames,
			s.PSNR[0], s.PSNR[1], s.PSNR[2], s.TotalPSNR, s.WeightedPSNR)
	}
	if r.Masked && (r.ROI == nil || r.NonROI == nil) {
		t.printf("%-22s %s\n", "", "ROI or non-ROI statistics not available: partition empty in every frame")
	}

	t.printf("%s\n", rule)
	t.printf("Intra-frame std dev of block luma: MSE %.4f, PSNR %.4f dB\n", r.Deviation.MSE, r.Deviation.PSNR)
	for _, m := range r.Maps {
		t.printf("Quality map %-8s %s (%.4f..%.4f dB)\n", m.Name+":", m.Path, m.Window.Min, m.Window.Max)
	}
	if len(r.Counters) > 0 {
		t.printf("Counters: %s\n", formatCounters(r.Counters))
	}
	return t.err
}

func formatCounters(c map[string]uint64) string {
	keys := []string{"frames_compared", "blocks_compared", "roi_blocks", "bytes_read", "partitions_skipped"}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := c[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", k, v))
		}
	}
	return strings.Join(parts, " ")
}
