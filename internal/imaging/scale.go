// Package imaging prepares raster images for the try-on service: it decodes
// uploads, scales them into the accepted dimension range and stacks two
// garments onto one canvas.
package imaging

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

const (
	MinDim = 300
	MaxDim = 1024
)

// TargetSize returns the dimensions Scale produces for a w×h source.
//
// Sources with a side below MinDim are scaled up until both sides reach it,
// sources with a side above MaxDim are scaled down until both fit, anything
// else is kept as is. The scale factor always wins over the opposite bound,
// so a 100x2000 source becomes 300x6000. Only non-positive sizes fail.
func TargetSize(w, h int) (int, int, error) {
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}

	scale := 1.0
	switch {
	case w < MinDim || h < MinDim:
		scale = math.Max(float64(MinDim)/float64(w), float64(MinDim)/float64(h))
	case w > MaxDim || h > MaxDim:
		scale = math.Min(float64(MaxDim)/float64(w), float64(MaxDim)/float64(h))
	}

	nw := max(int(math.Round(float64(w)*scale)), 1)
	nh := max(int(math.Round(float64(h)*scale)), 1)

	return nw, nh, nil
}

// Scale returns a new image sized by TargetSize. The source is never
// modified; an in-range source is copied without resampling.
func Scale(src image.Image) (*image.RGBA, error) {
	b := src.Bounds()
	w, h, err := TargetSize(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	return resample(src, w, h), nil
}

// FitSize shrinks w×h to fit inside maxW×maxH keeping the aspect ratio.
// It never enlarges; fractional pixels are truncated.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	aspect := float64(w) / float64(h)

	var nw, nh int
	if aspect > 1 {
		nw = min(w, maxW)
		nh = int(float64(nw) / aspect)
	} else {
		nh = min(h, maxH)
		nw = int(float64(nh) * aspect)
	}

	return max(nw, 1), max(nh, 1)
}

// Fit returns src shrunk into a maxW×maxH box, see FitSize.
func Fit(src image.Image, maxW, maxH int) *image.RGBA {
	b := src.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	return resample(src, w, h)
}

func resample(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	b := src.Bounds()

	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
