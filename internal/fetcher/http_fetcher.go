package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/genricoloni/nowrelay/internal/config"
	"github.com/genricoloni/nowrelay/internal/domain"
	"go.uber.org/zap"
)

const userAgent = "nowrelay-bridge/1.0"

// HTTPFetcher handles downloading image data from HTTP/HTTPS and file URLs
type HTTPFetcher struct {
	logger  *zap.Logger
	client  *http.Client
	maxSize int64
}

// NewHTTPFetcher creates a new HTTP-based fetcher instance
func NewHTTPFetcher(logger *zap.Logger, cfg *config.Config) *HTTPFetcher {
	return &HTTPFetcher{
		logger: logger,
		client: &http.Client{
			Timeout: cfg.Bridge.FetchTimeout,
		},
		maxSize: cfg.Bridge.MaxImageBytes,
	}
}

// Fetch downloads image data from the given URL.
// Every failure wraps domain.ErrFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %v", domain.ErrFetch, err)
	}

	var data []byte
	switch u.Scheme {
	case "http", "https":
		data, err = f.fetchHTTP(ctx, rawURL)
	case "file":
		// Local players (e.g. VLC) expose cached covers on disk
		data, err = f.readFile(u.Path)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", domain.ErrFetch, u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Image fetched successfully",
		zap.String("size", humanize.Bytes(uint64(len(data)))),
		zap.String("url", rawURL))
	return data, nil
}

func (f *HTTPFetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrFetch, err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: network error: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrFetch, resp.StatusCode)
	}

	return f.readLimited(resp.Body)
}

func (f *HTTPFetcher) readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer file.Close()

	return f.readLimited(file)
}

// readLimited reads at most maxSize bytes and fails on anything larger
func (f *HTTPFetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", domain.ErrFetch, err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: image exceeds %s", domain.ErrFetch, humanize.IBytes(uint64(f.maxSize)))
	}
	return data, nil
}
