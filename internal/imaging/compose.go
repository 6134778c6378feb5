package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const (
	Gap       = 40
	TopMargin = 20
)

// Layout describes where Combine places the two garments.
type Layout struct {
	Canvas image.Rectangle
	Upper  image.Rectangle
	Lower  image.Rectangle
}

// ComputeLayout positions an upper and a lower garment of the given sizes,
// after both are fitted into a MaxDim/2 square.
func ComputeLayout(upper, lower image.Point) Layout {
	half := MaxDim / 2
	uw, uh := FitSize(upper.X, upper.Y, half, half)
	lw, lh := FitSize(lower.X, lower.Y, half, half)

	width := max(uw, lw, MinDim)
	height := max(uh+lh+Gap+TopMargin, MinDim)

	ux := (width - uw) / 2
	lx := (width - lw) / 2
	ly := TopMargin + uh + Gap

	return Layout{
		Canvas: image.Rect(0, 0, width, height),
		Upper:  image.Rect(ux, TopMargin, ux+uw, TopMargin+uh),
		Lower:  image.Rect(lx, ly, lx+lw, ly+lh),
	}
}

// Combine stacks upper above lower on a white canvas, each horizontally
// centred, so both garments travel to the service as a single image.
func Combine(upper, lower image.Image) *image.RGBA {
	l := ComputeLayout(upper.Bounds().Size(), lower.Bounds().Size())

	canvas := image.NewRGBA(l.Canvas)
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	u := Fit(upper, l.Upper.Dx(), l.Upper.Dy())
	lo := Fit(lower, l.Lower.Dx(), l.Lower.Dy())

	draw.Draw(canvas, l.Upper, u, image.Point{}, draw.Over)
	draw.Draw(canvas, l.Lower, lo, image.Point{}, draw.Over)

	return canvas
}
