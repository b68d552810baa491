// Package models defines data structures for the pricing engine.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Strategy identifies which rule produced a search term.
type Strategy string

const (
	StrategyISBN        Strategy = "by_isbn"
	StrategyTitleAuthor Strategy = "by_title_author"
)

// BookQuery is one input row identifying a book to price. Any field may be
// empty; a row with neither an ISBN nor a title/author pair is skipped.
type BookQuery struct {
	Title  string `csv:"title" json:"title"`
	Author string `csv:"author" json:"author"`
	ISBN   string `csv:"isbn" json:"isbn"`
}

// SearchTerm is the string submitted to the marketplace, tagged with the
// strategy that produced it.
type SearchTerm struct {
	Query    string   `json:"query"`
	Strategy Strategy `json:"strategy"`
}

// Listing is one matching marketplace item. Only sold listings count
// toward price statistics.
type Listing struct {
	Price        decimal.Decimal
	ShippingCost decimal.Decimal
	Seller       string
	Sold         bool
}

// Status classifies the outcome for one book.
type Status string

const (
	StatusFound     Status = "Found"
	StatusNoResults Status = "NoResults"
	StatusSkipped   Status = "Skipped"
	StatusError     Status = "Error"
)

// BookResult is the computed summary for one BookQuery. The price fields
// are nil when ListingCount is zero. Values carry full precision; rounding
// to currency precision happens at the export boundary.
type BookResult struct {
	Query           BookQuery        `json:"query"`
	SearchTermUsed  SearchTerm       `json:"search_term_used"`
	ListingCount    int              `json:"listing_count"`
	AveragePrice    *decimal.Decimal `json:"average_price,omitempty"`
	MinPrice        *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice        *decimal.Decimal `json:"max_price,omitempty"`
	AverageShipping *decimal.Decimal `json:"average_shipping,omitempty"`
	SellerCount     int              `json:"seller_count"`
	Status          Status           `json:"status"`
	ErrorDetail     string           `json:"error_detail,omitempty"`
}

// Outcome is the terminal state of a run.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// RunSummary holds the overall result of one pass over a book list.
type RunSummary struct {
	Outcome       Outcome
	StartTime     time.Time
	EndTime       time.Time
	Processed     int
	Found         int
	NoResults     int
	Skipped       int
	Errors        int
	FetchCount    int
	FallbackCount int
}

// Record tallies one recorded book outcome.
func (rs *RunSummary) Record(status Status) {
	rs.Processed++
	switch status {
	case StatusFound:
		rs.Found++
	case StatusNoResults:
		rs.NoResults++
	case StatusSkipped:
		rs.Skipped++
	case StatusError:
		rs.Errors++
	}
}
