package qmap

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// WriteFile stores m at path. Paths ending in ".zst" are zstd compressed.
func WriteFile(path string, m []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var enc *zstd.Encoder
	if strings.HasSuffix(strings.ToLower(path), ".zst") {
		if enc, err = zstd.NewWriter(bw); err != nil {
			return err
		}
		w = enc
	}
	if _, err := w.Write(m); err != nil {
		if enc != nil {
			enc.Close()
		}
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return err
		}
	}
	return bw.Flush()
}
