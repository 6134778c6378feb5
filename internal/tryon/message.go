package tryon

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fitroom/internal/imaging"
	"github.com/dmitrijs2005/fitroom/internal/kling"
	"github.com/dmitrijs2005/fitroom/internal/netx"
)

const (
	msgUnreachable = "Could not reach the try-on service. Check your connection and try again."
	msgRejected    = "The try-on service rejected the request"
	msgJobFailed   = "The try-on generation failed"
)

// UserMessage turns a pipeline error into one line suitable for end users.
func UserMessage(err error) string {
	var re *kling.RemoteError
	detail := ""
	if errors.As(err, &re) {
		detail = re.Message
	}

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSelection):
		return "Select one garment, or an upper and a lower garment."
	case errors.Is(err, imaging.ErrDecodeFailed):
		return "One of the images could not be read. Use a JPEG, PNG, GIF or WebP file."
	case errors.Is(err, imaging.ErrInvalidDimensions):
		return "One of the images has no usable size."
	case errors.Is(err, kling.ErrRejected):
		return withDetail(msgRejected, detail)
	case errors.Is(err, kling.ErrJobFailed):
		return withDetail(msgJobFailed, detail)
	case errors.Is(err, kling.ErrPollExhausted):
		return "The try-on job is taking too long. Check its status later."
	case errors.Is(err, kling.ErrUnreachable),
		errors.Is(err, netx.ErrUnreachable),
		errors.Is(err, netx.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return msgUnreachable
	case errors.Is(err, context.Canceled):
		return "The try-on request was canceled."
	default:
		return "Something went wrong while generating the try-on image."
	}
}

func withDetail(msg, detail string) string {
	if detail == "" {
		return msg + "."
	}
	return fmt.Sprintf("%s: %s", msg, detail)
}
