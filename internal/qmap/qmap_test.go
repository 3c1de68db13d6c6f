package qmap

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yuvpsnr/internal/psnr"
	"yuvpsnr/internal/yuv"
)

func TestPercentile(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	assert.Equal(t, 2.0, Percentile(s, 10))
	assert.Equal(t, 10.0, Percentile(s, 90))
	assert.Equal(t, 6.0, Percentile(s, 50))

	// Interpolated: rank 0.9 between 10 and 20.
	assert.InDelta(t, 19.0, Percentile([]float64{10, 20}, 90), 1e-12)
	assert.InDelta(t, 11.0, Percentile([]float64{10, 20}, 10), 1e-12)
	assert.Equal(t, 7.0, Percentile([]float64{7}, 90))
}

func TestQuantize(t *testing.T) {
	w := Window{Min: 20, Max: 40}
	assert.Equal(t, byte(0), Quantize(20, w))
	assert.Equal(t, byte(0), Quantize(5, w))
	assert.Equal(t, byte(255), Quantize(40, w))
	assert.Equal(t, byte(255), Quantize(100, w))
	assert.Equal(t, byte(127), Quantize(30, w)) // floor(127.5)
}

func TestQuantizeMonotonic(t *testing.T) {
	w := Window{Min: 22.5, Max: 47.25}
	prev := byte(0)
	for p := 15.0; p <= 55; p += 0.037 {
		q := Quantize(p, w)
		assert.GreaterOrEqual(t, q, prev, "psnr %v", p)
		prev = q
	}
}

func TestGenerateExplicitBounds(t *testing.T) {
	// Block PSNRs: 100, ~48.13, ~28.13, ~8.13.
	mse := []float64{0, 1, 100, 10000}
	m, w, err := Generate(mse, Fixed(20, 50))
	require.NoError(t, err)
	assert.Equal(t, Window{Min: 20, Max: 50}, w)
	require.Len(t, m, 4)
	assert.Equal(t, byte(255), m[0])
	assert.Equal(t, byte((psnr.FromMSE(1)-20)/30*255), m[1])
	assert.Equal(t, byte((psnr.FromMSE(100)-20)/30*255), m[2])
	assert.Equal(t, byte(0), m[3])
}

func TestGenerateAutoBounds(t *testing.T) {
	mse := make([]float64, 11)
	for i := range mse {
		mse[i] = float64(i + 1)
	}
	m, w, err := Generate(mse, Bounds{})
	require.NoError(t, err)
	// PSNR falls with MSE, so the 10th percentile sits at MSE 10.
	assert.InDelta(t, psnr.FromMSE(10), w.Min, 1e-12)
	assert.InDelta(t, psnr.FromMSE(2), w.Max, 1e-12)
	assert.Equal(t, byte(255), m[0])
	assert.Equal(t, byte(255), m[1])
	assert.Equal(t, byte(0), m[9])
	assert.Equal(t, byte(0), m[10])
	for i := 1; i < len(m); i++ {
		assert.LessOrEqual(t, m[i], m[i-1])
	}
}

func TestGenerateHalfBounds(t *testing.T) {
	lo := 10.0
	_, w, err := Generate([]float64{1, 4, 9, 16, 25}, Bounds{Min: &lo})
	require.NoError(t, err)
	assert.Equal(t, 10.0, w.Min)
	assert.Greater(t, w.Max, w.Min)
}

func TestGenerateDegenerate(t *testing.T) {
	tests := []struct {
		name string
		mse  []float64
		b    Bounds
	}{
		{name: "identical sequence", mse: []float64{0, 0, 0, 0}, b: Bounds{}},
		{name: "equal explicit", mse: []float64{1}, b: Fixed(30, 30)},
		{name: "inverted explicit", mse: []float64{1}, b: Fixed(40, 30)},
		{name: "no blocks", mse: nil, b: Bounds{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Generate(tt.mse, tt.b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, yuv.ErrConfig))
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	m := []byte{0, 10, 255, 128, 7}

	plain := filepath.Join(dir, "map.bin")
	require.NoError(t, WriteFile(plain, m))
	got, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	packed := filepath.Join(dir, "map.bin.zst")
	require.NoError(t, WriteFile(packed, m))
	raw, err := os.ReadFile(packed)
	require.NoError(t, err)
	dec, err := zstd.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer dec.Close()
	got, err = io.ReadAll(dec)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	assert.Error(t, WriteFile(filepath.Join(dir, "missing", "map.bin"), m))
}
