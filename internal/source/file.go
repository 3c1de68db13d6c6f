package source

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// fileStream adapts *os.File to Stream with the size taken at open time.
type fileStream struct {
	*os.File
	size int64
}

func (f fileStream) Size() int64 { return f.size }

// openStream opens path for random access. Compressed streams are fully
// decoded and need no closer.
func openStream(path string) (Stream, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".zst") {
		defer f.Close()
		raw, err := decodeZstd(f)
		if err != nil {
			return nil, nil, err
		}
		return bytes.NewReader(raw), nil, nil
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return fileStream{File: f, size: fi.Size()}, f, nil
}

func decodeZstd(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
