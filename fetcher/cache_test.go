package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/aluiziolira/go-price-books/models"
)

type countingFetcher struct {
	calls int
	doc   string
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, _ models.SearchTerm) (string, error) {
	f.calls++
	return f.doc, f.err
}

func (f *countingFetcher) Close() error {
	return nil
}

func TestCachedFetchDeduplicates(t *testing.T) {
	inner := &countingFetcher{doc: "<html>doc</html>"}
	cached, err := NewCached(inner, 8)
	if err != nil {
		t.Fatalf("NewCached() error = %v", err)
	}

	term := models.SearchTerm{Query: "9780441172719", Strategy: models.StrategyISBN}
	for i := 0; i < 3; i++ {
		doc, err := cached.Fetch(context.Background(), term)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if doc != inner.doc {
			t.Fatalf("Fetch() doc = %q", doc)
		}
	}

	if inner.calls != 1 {
		t.Fatalf("inner fetcher called %d times, want 1", inner.calls)
	}
}

func TestCachedFetchDoesNotCacheFailures(t *testing.T) {
	inner := &countingFetcher{err: errors.New("boom")}
	cached, err := NewCached(inner, 8)
	if err != nil {
		t.Fatalf("NewCached() error = %v", err)
	}

	term := models.SearchTerm{Query: "dune", Strategy: models.StrategyISBN}
	for i := 0; i < 2; i++ {
		if _, err := cached.Fetch(context.Background(), term); err == nil {
			t.Fatalf("expected error")
		}
	}

	if inner.calls != 2 {
		t.Fatalf("failed fetches must not be cached, inner called %d times", inner.calls)
	}
}
