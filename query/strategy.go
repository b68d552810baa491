// Package query selects the marketplace search term for a book.
package query

import (
	"strings"

	"github.com/aluiziolira/go-price-books/models"
)

// Build picks the search term for a book. An ISBN wins over title/author;
// a row with neither yields ok=false and should be recorded as skipped.
func Build(q models.BookQuery) (models.SearchTerm, bool) {
	if isbn := strings.TrimSpace(q.ISBN); isbn != "" {
		return models.SearchTerm{Query: isbn, Strategy: models.StrategyISBN}, true
	}
	return Fallback(q)
}

// Fallback builds the "<title> <author>" term used both as the secondary
// strategy and as the retry after a fruitless ISBN search. It requires
// both fields.
func Fallback(q models.BookQuery) (models.SearchTerm, bool) {
	title := strings.TrimSpace(q.Title)
	author := strings.TrimSpace(q.Author)
	if title == "" || author == "" {
		return models.SearchTerm{}, false
	}
	return models.SearchTerm{
		Query:    title + " " + author,
		Strategy: models.StrategyTitleAuthor,
	}, true
}
