package imaging

import (
	"context"
	"image"

	"github.com/dmitrijs2005/fitroom/internal/logging"
)

const (
	TypeUser    = "user"
	TypeGarment = "garment"
)

// ScaledImage is an image whose sides are within [MinDim, MaxDim].
type ScaledImage struct {
	Image        *image.RGBA
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
}

// Processor decodes and scales uploads, logging the dimensions it sees.
type Processor struct {
	log logging.Logger
}

func NewProcessor(log logging.Logger) *Processor {
	if log == nil {
		log = logging.Nop()
	}
	return &Processor{log: log}
}

// Prepare decodes raw and scales it. imageType only labels log records.
func (p *Processor) Prepare(ctx context.Context, raw []byte, imageType string) (*ScaledImage, error) {
	src, err := Decode(raw)
	if err != nil {
		p.log.Warn(ctx, "decode failed", "image_type", imageType, "bytes", len(raw))
		return nil, err
	}
	return p.Scale(ctx, src, imageType)
}

func (p *Processor) Scale(ctx context.Context, src image.Image, imageType string) (*ScaledImage, error) {
	size := src.Bounds().Size()

	dst, err := Scale(src)
	if err != nil {
		p.log.Warn(ctx, "unsupported dimensions", "image_type", imageType, "width", size.X, "height", size.Y)
		return nil, err
	}

	p.log.Debug(ctx, "image scaled",
		"image_type", imageType,
		"source_width", size.X, "source_height", size.Y,
		"width", dst.Bounds().Dx(), "height", dst.Bounds().Dy())

	return &ScaledImage{
		Image:        dst,
		Width:        dst.Bounds().Dx(),
		Height:       dst.Bounds().Dy(),
		SourceWidth:  size.X,
		SourceHeight: size.Y,
	}, nil
}

// Combine stacks two scaled garments, see the package-level Combine.
func (p *Processor) Combine(ctx context.Context, upper, lower *ScaledImage) *image.RGBA {
	out := Combine(upper.Image, lower.Image)
	p.log.Debug(ctx, "garments combined",
		"width", out.Bounds().Dx(), "height", out.Bounds().Dy())
	return out
}
