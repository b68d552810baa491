package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-price-books/models"
)

// Cached wraps a Fetcher with an LRU of successful documents keyed by the
// search query, so duplicate entries in a book list do not trigger a second
// marketplace request.
type Cached struct {
	inner Fetcher
	cache *lru.Cache[string, string]
}

// NewCached builds a caching wrapper around inner.
func NewCached(inner Fetcher, size int) (*Cached, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("build fetch cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

// Fetch returns a cached document when available; only successful fetches
// are cached.
func (c *Cached) Fetch(ctx context.Context, term models.SearchTerm) (string, error) {
	if doc, ok := c.cache.Get(term.Query); ok {
		slog.Debug("fetch cache hit", slog.String("query", term.Query))
		return doc, nil
	}

	doc, err := c.inner.Fetch(ctx, term)
	if err != nil {
		return "", err
	}
	c.cache.Add(term.Query, doc)
	return doc, nil
}

// Close closes the wrapped fetcher.
func (c *Cached) Close() error {
	return c.inner.Close()
}
