package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func listingHTML(price, shipping, seller string, sold bool) string {
	var b strings.Builder
	b.WriteString(`<li class="s-item">`)
	if sold {
		b.WriteString(`<div class="s-item__title--tagblock"><span class="POSITIVE">Sold Aug 12, 2025</span></div>`)
	}
	if price != "" {
		fmt.Fprintf(&b, `<span class="s-item__price">%s</span>`, price)
	}
	if shipping != "" {
		fmt.Fprintf(&b, `<span class="s-item__shipping">%s</span>`, shipping)
	}
	if seller != "" {
		fmt.Fprintf(&b, `<span class="s-item__seller-info-text">%s</span>`, seller)
	}
	b.WriteString(`</li>`)
	return b.String()
}

func resultsPage(items ...string) string {
	return `<html><body><ul class="srp-results">` + strings.Join(items, "") + `</ul></body></html>`
}

func TestParseMixedItems(t *testing.T) {
	page := resultsPage(
		listingHTML("$12.50", "+$4.35 shipping", "bookcellar42 (1,234) 99.1%", true),
		listingHTML("$20.00", "Free shipping", "paperbackpete (88) 100%", false),
		listingHTML("", "+$2.00 shipping", "ghostseller (5) 95%", true),       // no price: dropped
		listingHTML("Call for price", "", "oddlot (9) 90%", true),             // unparsable price: dropped
		listingHTML("$8.99", "", "", true),                                    // no seller: kept
	)

	listings, dropped, err := Parse(page)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("Parse() kept %d listings, want 3", len(listings))
	}
	if dropped != 2 {
		t.Errorf("Parse() dropped = %d, want 2", dropped)
	}

	first := listings[0]
	if !first.Sold {
		t.Errorf("first listing should be marked sold")
	}
	if got := first.Price.String(); got != "12.5" {
		t.Errorf("first listing price = %s, want 12.5", got)
	}
	if got := first.ShippingCost.String(); got != "4.35" {
		t.Errorf("first listing shipping = %s, want 4.35", got)
	}
	if first.Seller != "bookcellar42" {
		t.Errorf("first listing seller = %q, want bookcellar42", first.Seller)
	}

	if listings[1].Sold {
		t.Errorf("active listing should not be marked sold")
	}
	if !listings[1].ShippingCost.IsZero() {
		t.Errorf("free shipping should normalize to zero")
	}

	if listings[2].Seller != "" {
		t.Errorf("missing seller info should yield empty identifier, got %q", listings[2].Seller)
	}
}

func TestParseNoResultsPage(t *testing.T) {
	page := `<html><body><div class="srp-save-null-search"><h3>No exact matches found</h3></div></body></html>`
	listings, dropped, err := Parse(page)
	if err != nil {
		t.Fatalf("well-formed no-results page must not error, got %v", err)
	}
	if len(listings) != 0 || dropped != 0 {
		t.Fatalf("no-results page yielded %d listings, %d dropped", len(listings), dropped)
	}
}

func TestParseEmptyResultsContainer(t *testing.T) {
	listings, _, err := Parse(resultsPage())
	if err != nil {
		t.Fatalf("empty results container must not error, got %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("expected no listings, got %d", len(listings))
	}
}

func TestParseMalformedDocument(t *testing.T) {
	pages := []string{
		`<html><body><form id="signin">Sign in to continue</form></body></html>`,
		`<html><body><h1>Pardon our interruption</h1></body></html>`,
		``,
	}
	for _, page := range pages {
		_, _, err := Parse(page)
		var parseErr ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("Parse(%.30q) error = %v, want ParseError", page, err)
		}
	}
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantOK   bool
	}{
		{name: "dollar amount", input: "$12.99", expected: "12.99", wantOK: true},
		{name: "with whitespace", input: "  $10.50  ", expected: "10.5", wantOK: true},
		{name: "thousands separator", input: "$1,204.00", expected: "1204", wantOK: true},
		{name: "range takes low bound", input: "$10.00 to $15.00", expected: "10", wantOK: true},
		{name: "currency prefix", input: "US $8.25", expected: "8.25", wantOK: true},
		{name: "plain number", input: "25.99", expected: "25.99", wantOK: true},
		{name: "no digits", input: "Call for price", wantOK: false},
		{name: "multiple dots", input: "1.2.3", wantOK: false},
		{name: "empty string", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, ok := NormalizePrice(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("NormalizePrice(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && price.String() != tt.expected {
				t.Errorf("NormalizePrice(%q) = %s, want %s", tt.input, price.String(), tt.expected)
			}
		})
	}
}

func TestNormalizeShipping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "paid shipping", input: "+$4.35 shipping", expected: "4.35"},
		{name: "free shipping", input: "Free shipping", expected: "0"},
		{name: "free delivery", input: "FREE delivery", expected: "0"},
		{name: "not stated", input: "", expected: "0"},
		{name: "unparsable", input: "See details", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeShipping(tt.input).String(); got != tt.expected {
				t.Errorf("NormalizeShipping(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSellerID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "bookcellar42 (1,234) 99.1%", expected: "bookcellar42"},
		{input: "  paperbackpete  ", expected: "paperbackpete"},
		{input: "", expected: ""},
		{input: "   ", expected: ""},
	}

	for _, tt := range tests {
		if got := SellerID(tt.input); got != tt.expected {
			t.Errorf("SellerID(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
