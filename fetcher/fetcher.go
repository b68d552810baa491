// Package fetcher provides access to the marketplace sold-listings search
// page. The engine consumes it only through the Fetcher interface so tests
// can substitute a deterministic fake.
package fetcher

import (
	"context"
	"net/url"

	"github.com/aluiziolira/go-price-books/models"
)

const searchBaseURL = "https://www.ebay.com/sch/i.html"

// Fetcher retrieves the raw result document for one search term.
type Fetcher interface {
	Fetch(ctx context.Context, term models.SearchTerm) (string, error)
	Close() error
}

// SearchURL builds the sold-and-completed listings search URL for a term.
func SearchURL(term models.SearchTerm) string {
	params := url.Values{}
	params.Set("_nkw", term.Query)
	params.Set("LH_Sold", "1")
	params.Set("LH_Complete", "1")
	params.Set("_ipg", "60")
	return searchBaseURL + "?" + params.Encode()
}
