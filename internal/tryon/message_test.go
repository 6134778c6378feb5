package tryon

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/fitroom/internal/imaging"
	"github.com/dmitrijs2005/fitroom/internal/kling"
	"github.com/dmitrijs2005/fitroom/internal/netx"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unreachable", &kling.RemoteError{Kind: kling.ErrUnreachable, StatusCode: 500}, msgUnreachable},
		{"download timeout", fmt.Errorf("fetch: %w", netx.ErrTimeout), msgUnreachable},
		{"rejected with message", &kling.RemoteError{Kind: kling.ErrRejected, Message: "bad image"}, "The try-on service rejected the request: bad image"},
		{"rejected bare", &kling.RemoteError{Kind: kling.ErrRejected}, "The try-on service rejected the request."},
		{"job failed", &kling.RemoteError{Kind: kling.ErrJobFailed, Message: "nsfw"}, "The try-on generation failed: nsfw"},
		{"canceled", context.Canceled, "The try-on request was canceled."},
		{"decode", fmt.Errorf("garment: %w", imaging.ErrDecodeFailed), "One of the images could not be read. Use a JPEG, PNG, GIF or WebP file."},
		{"selection", ErrInvalidSelection, "Select one garment, or an upper and a lower garment."},
		{"other", errors.New("disk full"), "Something went wrong while generating the try-on image."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}

	// the three remote kinds stay distinguishable
	a := UserMessage(&kling.RemoteError{Kind: kling.ErrUnreachable})
	b := UserMessage(&kling.RemoteError{Kind: kling.ErrRejected})
	c := UserMessage(&kling.RemoteError{Kind: kling.ErrJobFailed})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, b, c)
	assert.NotEqual(t, a, c)
}
