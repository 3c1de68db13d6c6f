package yuv

import "fmt"

// Frame is one I420 frame: a contiguous Y plane followed by U and V.
// Frames do not own their bytes; callers must not modify them while in use.
type Frame struct {
	grid Grid
	data []byte
}

// NewFrame wraps data as a frame of grid. The length must match exactly.
func NewFrame(g Grid, data []byte) (Frame, error) {
	if len(data) != g.FrameSize() {
		return Frame{}, fmt.Errorf("frame is %d bytes, want %d for %dx%d", len(data), g.FrameSize(), g.Width, g.Height)
	}
	return Frame{grid: g, data: data}, nil
}

// Grid returns the frame's block grid.
func (f Frame) Grid() Grid { return f.grid }

// Bytes returns the raw frame bytes.
func (f Frame) Bytes() []byte { return f.data }

// Plane returns the samples of plane p (PlaneY, PlaneU or PlaneV).
func (f Frame) Plane(p int) []byte {
	ys, cs := f.grid.LumaSize(), f.grid.ChromaSize()
	switch p {
	case PlaneY:
		return f.data[:ys]
	case PlaneU:
		return f.data[ys : ys+cs]
	case PlaneV:
		return f.data[ys+cs : ys+2*cs]
	}
	return nil
}
