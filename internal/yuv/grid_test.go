package yuv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
		wide, high    int
	}{
		{name: "cif", width: 352, height: 288, wide: 22, high: 18},
		{name: "single block", width: 16, height: 16, wide: 1, high: 1},
		{name: "two by one", width: 32, height: 16, wide: 2, high: 1},
		{name: "width not multiple", width: 15, height: 16, wantErr: true},
		{name: "height not multiple", width: 16, height: 20, wantErr: true},
		{name: "zero width", width: 0, height: 16, wantErr: true},
		{name: "negative height", width: 16, height: -16, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.width, tt.height)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfig))
				var ce *ConfigError
				require.True(t, errors.As(err, &ce))
				assert.NotEmpty(t, ce.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wide, g.BlocksWide)
			assert.Equal(t, tt.high, g.BlocksHigh)
			assert.Equal(t, tt.width*tt.height*3/2, g.FrameSize())
			assert.Equal(t, tt.wide*tt.high, g.MaskSize())
		})
	}
}

func TestGridOffsets(t *testing.T) {
	g, err := NewGrid(64, 32)
	require.NoError(t, err)

	assert.Equal(t, 0, g.LumaOffset(0, 0))
	assert.Equal(t, 16, g.LumaOffset(1, 0))
	assert.Equal(t, 16*64+3*16, g.LumaOffset(3, 1))

	assert.Equal(t, 64*32, g.ChromaOffset(0, 0))
	assert.Equal(t, 64*32+8*32+2*8, g.ChromaOffset(2, 1))
	assert.Equal(t, 32*16, g.ChromaSize())

	bx, by := g.BlockAt(5)
	assert.Equal(t, 1, bx)
	assert.Equal(t, 1, by)
}

func TestFramePlanes(t *testing.T) {
	g, err := NewGrid(16, 16)
	require.NoError(t, err)

	data := make([]byte, g.FrameSize())
	for i := range data {
		switch {
		case i < 256:
			data[i] = 1
		case i < 256+64:
			data[i] = 2
		default:
			data[i] = 3
		}
	}
	f, err := NewFrame(g, data)
	require.NoError(t, err)
	assert.Len(t, f.Plane(PlaneY), 256)
	assert.Equal(t, byte(2), f.Plane(PlaneU)[63])
	assert.Equal(t, byte(3), f.Plane(PlaneV)[0])
	assert.Nil(t, f.Plane(7))

	_, err = NewFrame(g, data[:10])
	assert.Error(t, err)
}
