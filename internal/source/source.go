// Package source reads reference, test and ROI mask frames from raw
// I420 streams by frame index.
package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"yuvpsnr/internal/yuv"
)

// Stream names used in errors and logs.
const (
	Reference = "reference"
	Test      = "test"
	Mask      = "mask"
)

// Stream is a random-access byte stream of known size. *bytes.Reader
// satisfies it directly; files are wrapped by Open.
type Stream interface {
	io.ReaderAt
	Size() int64
}

// Paths names the files of one comparison. Mask is optional.
type Paths struct {
	Reference string
	Test      string
	Mask      string
}

// Source serves whole frames of a reference/test pair and, optionally, the
// matching ROI mask planes. Every read addresses its frame by offset, so a
// Source may be shared by concurrent readers.
type Source struct {
	grid   yuv.Grid
	ref    Stream
	test   Stream
	mask   Stream
	frames int
	close  []io.Closer
}

// New builds a Source over already opened streams. mask may be nil.
// maxFrames caps the frame count when positive. A mask stream without a
// plane for every frame to compare fails with *yuv.ShortReadError before
// any frame is read.
func New(g yuv.Grid, ref, test, mask Stream, maxFrames int, logger *slog.Logger) (*Source, error) {
	if ref == nil || test == nil {
		return nil, yuv.Configf("streams", "reference and test streams are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	frameSize := int64(g.FrameSize())
	minSize := min(ref.Size(), test.Size())
	frames := int(minSize / frameSize)
	if minSize%frameSize != 0 {
		logger.Warn("file size not multiple of frame size; ignoring trailing partial frame",
			"bytes", minSize, "frame_size", frameSize, "frames", frames)
	}
	if maxFrames > 0 && maxFrames < frames {
		frames = maxFrames
	}
	if mask != nil {
		planeSize := int64(g.MaskSize())
		if have := int(mask.Size() / planeSize); have < frames {
			return nil, &yuv.ShortReadError{
				Stream: Mask,
				Frame:  have,
				Want:   g.MaskSize(),
				Got:    int(mask.Size() - int64(have)*planeSize),
			}
		}
	}
	return &Source{grid: g, ref: ref, test: test, mask: mask, frames: frames}, nil
}

// Open opens the files named by p and builds a Source over them. Files
// ending in ".zst" are decompressed into memory first. On error every file
// opened so far is closed again.
func Open(g yuv.Grid, p Paths, maxFrames int, logger *slog.Logger) (s *Source, err error) {
	if p.Reference == "" {
		return nil, yuv.Configf("reference", "path is required")
	}
	if p.Test == "" {
		return nil, yuv.Configf("test", "path is required")
	}
	var closers []io.Closer
	defer func() {
		if err != nil {
			for _, c := range closers {
				_ = c.Close()
			}
		}
	}()

	open := func(name, path string) (Stream, error) {
		st, c, err := openStream(path)
		if err != nil {
			return nil, fmt.Errorf("open %s stream %s: %w", name, path, err)
		}
		if c != nil {
			closers = append(closers, c)
		}
		return st, nil
	}

	ref, err := open(Reference, p.Reference)
	if err != nil {
		return nil, err
	}
	test, err := open(Test, p.Test)
	if err != nil {
		return nil, err
	}
	var mask Stream
	if p.Mask != "" {
		if mask, err = open(Mask, p.Mask); err != nil {
			return nil, err
		}
	}
	s, err = New(g, ref, test, mask, maxFrames, logger)
	if err != nil {
		return nil, err
	}
	s.close = closers
	return s, nil
}

// Grid returns the block grid the source was opened with.
func (s *Source) Grid() yuv.Grid { return s.grid }

// Frames is the number of whole frames available for comparison.
func (s *Source) Frames() int { return s.frames }

// HasMask reports whether an ROI mask stream is configured.
func (s *Source) HasMask() bool { return s.mask != nil }

// ReadFrame fills ref and test with frame n of each stream. Both buffers
// must be FrameSize bytes.
func (s *Source) ReadFrame(n int, ref, test []byte) error {
	if err := readAt(s.ref, Reference, n, ref); err != nil {
		return err
	}
	return readAt(s.test, Test, n, test)
}

// ReadMask fills dst with the ROI mask plane of frame n.
func (s *Source) ReadMask(n int, dst []byte) error {
	if s.mask == nil {
		return errors.New("no mask stream configured")
	}
	return readAt(s.mask, Mask, n, dst)
}

// Close releases every file opened by Open. It is safe to call more than once.
func (s *Source) Close() error {
	var errs []error
	for _, c := range s.close {
		errs = append(errs, c.Close())
	}
	s.close = nil
	return errors.Join(errs...)
}

func readAt(st Stream, name string, n int, dst []byte) error {
	off := int64(n) * int64(len(dst))
	got, err := st.ReadAt(dst, off)
	if got == len(dst) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &yuv.ShortReadError{Stream: name, Frame: n, Want: len(dst), Got: got}
	}
	return fmt.Errorf("read %s frame %d: %w", name, n, err)
}
