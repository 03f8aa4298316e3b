// Package client is the HTTP client shared by the source resolvers.
package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.trai.ch/mcsmith/internal/build"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/zerr"
)

const defaultTimeout = 30 * time.Second

// Client issues GET requests against source APIs and download hosts.
type Client struct {
	http      *http.Client
	userAgent string
}

// New creates a client with a request timeout for metadata calls.
// Downloads are bounded by the caller's context instead.
func New() *Client {
	return NewWithHTTPClient(&http.Client{})
}

// NewWithHTTPClient wraps an existing http.Client.
func NewWithHTTPClient(hc *http.Client) *Client {
	return &Client{
		http:      hc,
		userAgent: domain.AppName + "/" + build.Version,
	}
}

// GetJSON decodes the response of url into out.
// A 404 returns false and no error so callers can map it to their own not-found error.
func (c *Client) GetJSON(ctx context.Context, url string, out any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	resp, err := c.get(ctx, url)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, statusError(url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrSourceResponseInvalid.Error()), "url", url)
	}
	return true, nil
}

// Open starts a download and returns the body with its content length, or -1 when unknown.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, 0, zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, 0, zerr.With(domain.ErrSourceNotFound, "url", url)
		}
		return nil, 0, zerr.Wrap(statusError(url, resp.StatusCode), domain.ErrDownloadFailed.Error())
	}

	size := resp.ContentLength
	if size < 0 {
		size = domain.UnknownSize
	}
	return resp.Body, size, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceRequestFailed.Error()), "url", url)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceRequestFailed.Error()), "url", url)
	}
	return resp, nil
}

func statusError(url string, status int) error {
	err := zerr.With(domain.ErrSourceRequestFailed, "status_code", status)
	return zerr.With(err, "url", url)
}
