// Package parser turns marketplace result documents into listing records.
package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/aluiziolira/go-price-books/models"
)

// Selectors for the sold-listings search results markup.
const (
	selResults    = "ul.srp-results"
	selItem       = "li.s-item"
	selPrice      = ".s-item__price"
	selShipping   = ".s-item__shipping"
	selSeller     = ".s-item__seller-info-text"
	selSoldTag    = ".s-item__title--tagblock .POSITIVE"
	selNullSearch = ".srp-save-null-search"
)

// ParseError marks a document that could not be read as a results page at
// all, typically a login wall or challenge page.
type ParseError struct {
	Reason string
}

func (e ParseError) Error() string {
	return "parse results page: " + e.Reason
}

// Parse extracts listings from one fetched search results document. It
// returns the listings that survived field-level validation and the number
// of discarded items. A well-formed empty results page yields an empty
// slice; a document that is not a results page yields a ParseError.
//
// Items missing a price cannot contribute to price statistics and are
// dropped. Items missing a seller identifier are kept with an empty Seller
// so they still count toward prices but not toward distinct sellers.
func Parse(html string) ([]models.Listing, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, ParseError{Reason: err.Error()}
	}

	results := doc.Find(selResults)
	if results.Length() == 0 {
		if doc.Find(selNullSearch).Length() > 0 {
			return nil, 0, nil
		}
		return nil, 0, ParseError{Reason: "no results container in document"}
	}

	var listings []models.Listing
	dropped := 0
	results.Find(selItem).Each(func(_ int, item *goquery.Selection) {
		listing, ok := extractListing(item)
		if !ok {
			dropped++
			return
		}
		listings = append(listings, listing)
	})

	if dropped > 0 {
		slog.Warn("discarded unparsable listings",
			slog.Int("parsed", len(listings)),
			slog.Int("discarded", dropped),
		)
	}
	return listings, dropped, nil
}

func extractListing(item *goquery.Selection) (models.Listing, bool) {
	priceText := strings.TrimSpace(item.Find(selPrice).First().Text())
	if priceText == "" {
		return models.Listing{}, false
	}
	price, ok := NormalizePrice(priceText)
	if !ok {
		slog.Debug("dropping listing with unparsable price", slog.String("price", priceText))
		return models.Listing{}, false
	}

	return models.Listing{
		Price:        price,
		ShippingCost: NormalizeShipping(item.Find(selShipping).First().Text()),
		Seller:       SellerID(item.Find(selSeller).First().Text()),
		Sold:         isSold(item),
	}, true
}

func isSold(item *goquery.Selection) bool {
	tag := strings.TrimSpace(item.Find(selSoldTag).First().Text())
	return strings.Contains(strings.ToLower(tag), "sold")
}

// NormalizePrice reduces a displayed price to a plain decimal amount. A
// price range takes its low bound. Currency symbols, thousands separators,
// and surrounding text are stripped.
func NormalizePrice(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Decimal{}, false
	}
	if i := strings.Index(strings.ToLower(text), " to "); i >= 0 {
		text = text[:i]
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, text)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}

// NormalizeShipping reduces displayed shipping text to a decimal cost.
// Free or unstated shipping is zero, as is anything unparsable.
func NormalizeShipping(text string) decimal.Decimal {
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(strings.ToLower(text), "free") {
		return decimal.Zero
	}
	cost, ok := NormalizePrice(text)
	if !ok {
		return decimal.Zero
	}
	return cost
}

// SellerID extracts the seller identifier from seller-info text such as
// "bookcellar42 (1,234) 99.1%". Empty input yields an empty identifier.
func SellerID(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
