package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// response closes the per-request context together with the body.
type response struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r response) Close() error {
	defer r.cancel()
	return r.ReadCloser.Close()
}

func openHTTP(client *http.Client, timeout time.Duration) opener {
	return func(ctx context.Context, url string) (io.ReadCloser, error) {
		if client == nil {
			return nil, errors.New("templates loader: http support disabled")
		}
		if url == "" {
			return nil, errors.New("templates loader: url is required")
		}

		cancel := context.CancelFunc(func() {})
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			cancel()
			return nil, err
		}
		req.Header.Set("Accept", "text/html, */*;q=0.5")

		resp, err := client.Do(req)
		if err != nil {
			cancel()
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			cancel()
			return nil, fmt.Errorf("templates loader: GET %s: unexpected status %s", url, resp.Status)
		}
		return response{ReadCloser: resp.Body, cancel: cancel}, nil
	}
}
