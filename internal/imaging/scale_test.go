package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x + y) % 256), A: 255})
		}
	}
	return img
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
		wantErr      error
	}{
		{name: "upscale portrait", w: 200, h: 400, wantW: 300, wantH: 600},
		{name: "upscale landscape", w: 450, h: 150, wantW: 900, wantH: 300},
		{name: "downscale", w: 500, h: 1200, wantW: 427, wantH: 1024},
		{name: "downscale square", w: 2048, h: 2048, wantW: 1024, wantH: 1024},
		{name: "identity", w: 600, h: 1000, wantW: 600, wantH: 1000},
		{name: "identity bounds", w: 300, h: 1024, wantW: 300, wantH: 1024},
		{name: "upscale overshoots max", w: 100, h: 2000, wantW: 300, wantH: 6000},
		{name: "downscale undershoots min", w: 2000, h: 500, wantW: 1024, wantH: 256},
		{name: "full length garment", w: 250, h: 1000, wantW: 300, wantH: 1200},
		{name: "wide landscape photo", w: 4000, h: 1000, wantW: 1024, wantH: 256},
		{name: "zero width", w: 0, h: 10, wantErr: ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := TargetSize(tt.w, tt.h)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestScale_Properties(t *testing.T) {
	sizes := []image.Point{
		{10, 10}, {50, 80}, {120, 299}, {299, 299}, {299, 600}, {250, 700},
		{250, 1000}, {100, 2000}, {1100, 1100}, {1500, 2000}, {4000, 3000},
		{1025, 1300}, {4000, 1000}, {5000, 1100}, {300, 300}, {512, 768},
		{1024, 1024}, {640, 480},
	}

	for _, s := range sizes {
		src := solid(s.X, s.Y, color.Gray{Y: 128})

		out, err := Scale(src)
		require.NoError(t, err, "size %v", s)

		w, h := out.Bounds().Dx(), out.Bounds().Dy()
		if s.X < MinDim || s.Y < MinDim {
			assert.GreaterOrEqual(t, w, MinDim, "size %v", s)
			assert.GreaterOrEqual(t, h, MinDim, "size %v", s)
		}
		if s.X > MaxDim && s.Y > MaxDim {
			assert.LessOrEqual(t, w, MaxDim, "size %v", s)
			assert.LessOrEqual(t, h, MaxDim, "size %v", s)
		}

		srcAspect := float64(s.X) / float64(s.Y)
		outAspect := float64(w) / float64(h)
		assert.LessOrEqual(t, math.Abs(outAspect-srcAspect)/srcAspect, 0.01, "size %v", s)

		inRange := s.X >= MinDim && s.Y >= MinDim && s.X <= MaxDim && s.Y <= MaxDim
		if inRange {
			assert.Equal(t, s, out.Bounds().Size(), "identity expected for %v", s)
		}
	}
}

func TestScale_IdentityCopiesPixels(t *testing.T) {
	src := gradient(400, 500)

	out, err := Scale(src)
	require.NoError(t, err)

	assert.Equal(t, src.Pix, out.Pix)
	out.Set(0, 0, color.White)
	assert.NotEqual(t, src.RGBAAt(0, 0), out.RGBAAt(0, 0), "output must not alias the source")
}

func TestScale_DoesNotMutateSource(t *testing.T) {
	src := gradient(120, 90)
	before := append([]uint8(nil), src.Pix...)

	_, err := Scale(src)
	require.NoError(t, err)

	assert.Equal(t, before, src.Pix)
	assert.Equal(t, image.Rect(0, 0, 120, 90), src.Bounds())
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{600, 1000, 307, 512},
		{427, 1024, 213, 512},
		{800, 400, 512, 256},
		{1000, 1000, 512, 512},
		{200, 100, 200, 100},
		{512, 512, 512, 512},
	}

	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, 512, 512)
		assert.Equal(t, tt.wantW, w, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "%dx%d", tt.w, tt.h)
	}
}
