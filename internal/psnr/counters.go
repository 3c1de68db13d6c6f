package psnr

import "sync/atomic"

// Process-wide counters for progress and health logging. They never feed
// the statistics themselves.
var (
	framesCompared atomic.Uint64 // frame pairs accumulated
	blocksCompared atomic.Uint64 // macroblocks measured
	roiBlocks      atomic.Uint64 // macroblocks flagged by the mask
	bytesRead      atomic.Uint64 // frame and mask bytes requested
	partsSkipped   atomic.Uint64 // empty partitions left out under SkipEmpty
)

// ResetCounters resets all counters to zero.
func ResetCounters() {
	framesCompared.Store(0)
	blocksCompared.Store(0)
	roiBlocks.Store(0)
	bytesRead.Store(0)
	partsSkipped.Store(0)
}

// GetCounters returns a snapshot of the counters.
func GetCounters() map[string]uint64 {
	return map[string]uint64{
		"frames_compared":    framesCompared.Load(),
		"blocks_compared":    blocksCompared.Load(),
		"roi_blocks":         roiBlocks.Load(),
		"bytes_read":         bytesRead.Load(),
		"partitions_skipped": partsSkipped.Load(),
	}
}

func countFrame(fq FrameQuality) {
	framesCompared.Add(1)
	blocksCompared.Add(uint64(fq.Blocks))
	roiBlocks.Add(uint64(fq.ROIBlocks))
	if fq.Masked {
		if fq.ROI == nil {
			partsSkipped.Add(1)
		}
		if fq.NonROI == nil {
			partsSkipped.Add(1)
		}
	}
}

func countBytes(n int) {
	if n > 0 {
		bytesRead.Add(uint64(n))
	}
}
