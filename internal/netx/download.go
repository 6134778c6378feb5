// Package netx holds the plain-HTTP transfers: fetching generated images
// and uploading objects to presigned URLs.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// maxDownload caps result images; anything larger is truncated input.
const maxDownload = 32 << 20

type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher whose requests give up after timeout
// (0 disables the limit).
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Download reads the whole body at url. Failures map to ErrTimeout or
// ErrUnreachable; nothing is retried.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, mapError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, mapError(ctx, err)
	}
	if len(data) > maxDownload {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrUnreachable, maxDownload)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnreachable)
	}

	return data, nil
}

func mapError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}

	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
