package psnr

import (
	"sync"

	"yuvpsnr/internal/yuv"
)

// bufPool recycles frame-sized byte slices between runs and workers.
var bufPool = sync.Pool{
	New: func() any {
		var b []byte
		return &b
	},
}

// getBuf returns a slice of length size, reusing pooled storage when it is
// large enough.
func getBuf(size int) []byte {
	bp := bufPool.Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		return make([]byte, size)
	}
	return b[:size]
}

func putBuf(b []byte) {
	if cap(b) == 0 {
		return
	}
	bufPool.Put(&b)
}

// frameBuffers is one worker's read storage.
type frameBuffers struct {
	ref, test, mask []byte
}

func newFrameBuffers(g yuv.Grid) *frameBuffers {
	return &frameBuffers{
		ref:  getBuf(g.FrameSize()),
		test: getBuf(g.FrameSize()),
		mask: getBuf(g.MaskSize()),
	}
}

func (f *frameBuffers) release() {
	putBuf(f.ref)
	putBuf(f.test)
	putBuf(f.mask)
}
