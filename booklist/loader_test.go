package booklist

import (
	"strings"
	"testing"

	"github.com/aluiziolira/go-price-books/models"
)

func TestReadFullHeader(t *testing.T) {
	input := strings.Join([]string{
		"Title,Author,ISBN",
		"Dune,Frank Herbert,9780441172719",
		"Hyperion,Dan Simmons,",
		",,",
	}, "\n")

	queries, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := []models.BookQuery{
		{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441172719"},
		{Title: "Hyperion", Author: "Dan Simmons"},
		{},
	}
	if len(queries) != len(want) {
		t.Fatalf("got %d queries, want %d", len(queries), len(want))
	}
	for i := range want {
		if queries[i] != want[i] {
			t.Errorf("query %d = %+v, want %+v", i, queries[i], want[i])
		}
	}
}

func TestReadReorderedAndExtraColumns(t *testing.T) {
	input := strings.Join([]string{
		"ISBN,Notes,Title,Author",
		"9780441172719,keep,Dune,Frank Herbert",
	}, "\n")

	queries, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(queries) != 1 {
		t.Fatalf("got %d queries, want 1", len(queries))
	}
	if queries[0] != (models.BookQuery{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441172719"}) {
		t.Fatalf("query = %+v", queries[0])
	}
}

func TestReadMissingColumnDefaultsEmpty(t *testing.T) {
	input := strings.Join([]string{
		"Title,Author",
		"Dune,Frank Herbert",
	}, "\n")

	queries, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if queries[0].ISBN != "" {
		t.Fatalf("missing ISBN column must default empty, got %q", queries[0].ISBN)
	}
}

func TestReadHeaderIsCaseSensitive(t *testing.T) {
	input := strings.Join([]string{
		"title,author,isbn",
		"Dune,Frank Herbert,9780441172719",
	}, "\n")

	if _, err := Read(strings.NewReader(input)); err == nil {
		t.Fatalf("lowercase headers must not be recognized")
	}
}

func TestReadEmptyInput(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestReadHeaderOnly(t *testing.T) {
	queries, err := Read(strings.NewReader("Title,Author,ISBN\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(queries) != 0 {
		t.Fatalf("got %d queries, want 0", len(queries))
	}
}
