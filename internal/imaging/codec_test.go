package imaging

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fitroom/internal/logging"
)

func TestDecode(t *testing.T) {
	pngBytes, err := EncodePNG(solid(20, 30, red))
	require.NoError(t, err)
	jpgBytes, err := EncodeJPEG(solid(40, 10, blue), 90)
	require.NoError(t, err)

	tests := []struct {
		name    string
		raw     []byte
		want    image.Point
		wantErr error
	}{
		{name: "png", raw: pngBytes, want: image.Pt(20, 30)},
		{name: "jpeg", raw: jpgBytes, want: image.Pt(40, 10)},
		{name: "empty", raw: nil, wantErr: ErrDecodeFailed},
		{name: "garbage", raw: []byte("definitely not an image"), wantErr: ErrDecodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, img.Bounds().Size())
		})
	}
}

func TestProcessor_Prepare(t *testing.T) {
	raw, err := EncodePNG(solid(200, 400, color.Gray{Y: 90}))
	require.NoError(t, err)

	p := NewProcessor(logging.Nop())
	got, err := p.Prepare(context.Background(), raw, TypeUser)
	require.NoError(t, err)

	assert.Equal(t, 300, got.Width)
	assert.Equal(t, 600, got.Height)
	assert.Equal(t, 200, got.SourceWidth)
	assert.Equal(t, 400, got.SourceHeight)
	assert.Equal(t, image.Pt(300, 600), got.Image.Bounds().Size())
}

func TestProcessor_PrepareErrors(t *testing.T) {
	p := NewProcessor(nil)

	_, err := p.Prepare(context.Background(), []byte{0x01, 0x02}, TypeGarment)
	require.ErrorIs(t, err, ErrDecodeFailed)

	_, err = p.Scale(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0)), TypeGarment)
	require.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestProcessor_PrepareExtremeAspect(t *testing.T) {
	p := NewProcessor(nil)

	raw, err := EncodePNG(solid(2000, 100, red))
	require.NoError(t, err)

	got, err := p.Prepare(context.Background(), raw, TypeGarment)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(6000, 300), got.Image.Bounds().Size())
}
