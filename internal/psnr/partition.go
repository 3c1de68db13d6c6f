package psnr

// FrameReader supplies frame n of the reference and test streams.
type FrameReader interface {
	ReadFrame(n int, ref, test []byte) error
}

// MaskReader supplies the ROI mask plane of frame n.
type MaskReader interface {
	ReadMask(n int, dst []byte) error
}

// Partition decides whether a run splits blocks into ROI and non-ROI.
// It is chosen once per run: WholeFrame or MaskedFrame.
type Partition interface {
	// Load returns the ROI flags of frame n, using dst as storage, or nil
	// when frames are not split.
	Load(n int, dst []byte) ([]byte, error)
}

// WholeFrame measures frames without ROI statistics.
type WholeFrame struct{}

func (WholeFrame) Load(int, []byte) ([]byte, error) { return nil, nil }

// MaskedFrame splits every frame by the mask plane read from Masks.
type MaskedFrame struct {
	Masks MaskReader
}

func (m MaskedFrame) Load(n int, dst []byte) ([]byte, error) {
	if err := m.Masks.ReadMask(n, dst); err != nil {
		return nil, err
	}
	countBytes(len(dst))
	return dst, nil
}
