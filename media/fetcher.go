// Package media retrieves remote media referenced by submitted service
// requests. A failed fetch never fails the surrounding create; callers
// drop the media reference instead.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fetcher downloads a remote URL and returns the public URL of the
// stored copy.
type Fetcher interface {
	Fetch(ctx context.Context, remoteURL string) (string, error)
}

// HTTPFetcher stores fetched files under dir and serves them below
// baseURL. The client timeout bounds the one blocking external call in
// the create path.
type HTTPFetcher struct {
	client  *http.Client
	dir     string
	baseURL string
}

func NewHTTPFetcher(dir, baseURL string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, remoteURL string) (string, error) {
	parsed, err := url.Parse(remoteURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("media: unsupported url %q", remoteURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", fmt.Errorf("media: build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("media: fetch %s: %w", remoteURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media: fetch %s: status %d", remoteURL, resp.StatusCode)
	}

	name := uuid.NewString() + ext(parsed.Path)
	dest := path.Join(f.dir, name)
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("media: create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("media: write %s: %w", dest, err)
	}

	return f.baseURL + "/" + name, nil
}

func ext(p string) string {
	e := path.Ext(p)
	if len(e) > 8 {
		return ""
	}
	return e
}
