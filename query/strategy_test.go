package query

import (
	"testing"

	"github.com/aluiziolira/go-price-books/models"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name         string
		query        models.BookQuery
		wantQuery    string
		wantStrategy models.Strategy
		wantOK       bool
	}{
		{
			name:         "isbn wins over title and author",
			query:        models.BookQuery{Title: "Dune", Author: "Herbert", ISBN: "9780441172719"},
			wantQuery:    "9780441172719",
			wantStrategy: models.StrategyISBN,
			wantOK:       true,
		},
		{
			name:         "isbn only",
			query:        models.BookQuery{ISBN: "9780441172719"},
			wantQuery:    "9780441172719",
			wantStrategy: models.StrategyISBN,
			wantOK:       true,
		},
		{
			name:         "isbn trimmed",
			query:        models.BookQuery{ISBN: "  9780441172719  "},
			wantQuery:    "9780441172719",
			wantStrategy: models.StrategyISBN,
			wantOK:       true,
		},
		{
			name:         "title and author",
			query:        models.BookQuery{Title: "Dune", Author: "Frank Herbert"},
			wantQuery:    "Dune Frank Herbert",
			wantStrategy: models.StrategyTitleAuthor,
			wantOK:       true,
		},
		{
			name:   "title only",
			query:  models.BookQuery{Title: "Dune"},
			wantOK: false,
		},
		{
			name:   "author only",
			query:  models.BookQuery{Author: "Frank Herbert"},
			wantOK: false,
		},
		{
			name:   "whitespace isbn with title only",
			query:  models.BookQuery{Title: "Dune", ISBN: "   "},
			wantOK: false,
		},
		{
			name:   "fully empty row",
			query:  models.BookQuery{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, ok := Build(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("Build() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if term.Query != tt.wantQuery {
				t.Errorf("Build() query = %q, want %q", term.Query, tt.wantQuery)
			}
			if term.Strategy != tt.wantStrategy {
				t.Errorf("Build() strategy = %q, want %q", term.Strategy, tt.wantStrategy)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	term, ok := Fallback(models.BookQuery{Title: " Dune ", Author: " Frank Herbert ", ISBN: "9780441172719"})
	if !ok {
		t.Fatalf("fallback should be available when title and author are set")
	}
	if term.Query != "Dune Frank Herbert" {
		t.Errorf("Fallback() query = %q, want %q", term.Query, "Dune Frank Herbert")
	}
	if term.Strategy != models.StrategyTitleAuthor {
		t.Errorf("Fallback() strategy = %q, want %q", term.Strategy, models.StrategyTitleAuthor)
	}

	if _, ok := Fallback(models.BookQuery{Title: "Dune"}); ok {
		t.Fatalf("fallback requires both title and author")
	}
}
