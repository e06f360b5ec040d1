package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache stores fetched content bytes keyed by source URL so rotation doesn't
// refetch the same asset every cycle. Purge implements the clear-cache
// remote command.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, data []byte) error
	Purge(ctx context.Context) error
}

// HTTPFetcher reads content through the cache, downloading on miss. It is
// the renderer-facing read path for images and documents.
type HTTPFetcher struct {
	Cache  Cache
	Client *http.Client
}

func NewHTTPFetcher(c Cache) *HTTPFetcher {
	return &HTTPFetcher{
		Cache:  c,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok, err := f.Cache.Get(ctx, url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("cache read failed, fetching directly")
	} else if ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if err := f.Cache.Put(ctx, url, data); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("cache write failed")
	}
	return data, nil
}
