// Package aggregate reduces marketplace listings into per-book summary
// statistics. All arithmetic stays in decimal; rounding to currency
// precision is left to the export boundary.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/aluiziolira/go-price-books/models"
)

// Summarize computes the summary fields of a BookResult from the listings
// returned by one search. Only sold listings contribute; with none left the
// result is NoResults and the price fields stay nil.
func Summarize(q models.BookQuery, term models.SearchTerm, listings []models.Listing) models.BookResult {
	result := models.BookResult{
		Query:          q,
		SearchTermUsed: term,
	}

	sold := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Sold {
			sold = append(sold, l)
		}
	}

	if len(sold) == 0 {
		result.Status = models.StatusNoResults
		return result
	}

	priceSum := decimal.Zero
	shippingSum := decimal.Zero
	minPrice := sold[0].Price
	maxPrice := sold[0].Price
	sellers := make(map[string]struct{})

	for _, l := range sold {
		priceSum = priceSum.Add(l.Price)
		shippingSum = shippingSum.Add(l.ShippingCost)
		if l.Price.LessThan(minPrice) {
			minPrice = l.Price
		}
		if l.Price.GreaterThan(maxPrice) {
			maxPrice = l.Price
		}
		if l.Seller != "" {
			sellers[l.Seller] = struct{}{}
		}
	}

	count := decimal.NewFromInt(int64(len(sold)))
	averagePrice := priceSum.Div(count)
	averageShipping := shippingSum.Div(count)

	result.ListingCount = len(sold)
	result.AveragePrice = &averagePrice
	result.MinPrice = &minPrice
	result.MaxPrice = &maxPrice
	result.AverageShipping = &averageShipping
	result.SellerCount = len(sellers)
	result.Status = models.StatusFound
	return result
}
