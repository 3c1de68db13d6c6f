package psnr

import (
	"errors"
	"fmt"
)

// ErrEmptyPartition matches every *EmptyPartitionError.
var ErrEmptyPartition = errors.New("empty partition")

// EmptyPartitionError reports a frame whose ROI or non-ROI side has no
// blocks, so its statistics have no samples to average over.
type EmptyPartitionError struct {
	Frame     int
	Partition Granularity
}

func (e *EmptyPartitionError) Error() string {
	return fmt.Sprintf("frame %d: %s partition has no blocks", e.Frame, e.Partition)
}

func (e *EmptyPartitionError) Is(target error) bool { return target == ErrEmptyPartition }

// EmptyPolicy decides what an empty ROI or non-ROI partition does to a run.
type EmptyPolicy int

const (
	// FailEmpty aborts the run on the first empty partition.
	FailEmpty EmptyPolicy = iota
	// SkipEmpty leaves the frame out of that partition's sequence average.
	SkipEmpty
)

// String returns the policy name used in configuration.
func (p EmptyPolicy) String() string {
	switch p {
	case FailEmpty:
		return "fail"
	case SkipEmpty:
		return "skip"
	default:
		return "unknown"
	}
}

// ParseEmptyPolicy parses "fail" or "skip". The empty string means fail.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch s {
	case "", "fail":
		return FailEmpty, nil
	case "skip":
		return SkipEmpty, nil
	}
	return FailEmpty, fmt.Errorf("unknown empty partition policy %q (must be 'fail' or 'skip')", s)
}
