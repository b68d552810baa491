// Package booklist loads the input list of books to price.
package booklist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/aluiziolira/go-price-books/models"
)

// Column headers recognized in the input file. Matching is case-sensitive;
// a missing column defaults every row's field to the empty string.
const (
	ColumnTitle  = "Title"
	ColumnAuthor = "Author"
	ColumnISBN   = "ISBN"
)

// Read parses an input table into book queries, one per data row. Rows
// with every field empty are kept; the engine records them as skipped
// rather than dropping them silently.
func Read(r io.Reader) ([]models.BookQuery, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read input header: %w", err)
	}

	titleIdx, authorIdx, isbnIdx := -1, -1, -1
	for i, name := range header {
		switch name {
		case ColumnTitle:
			titleIdx = i
		case ColumnAuthor:
			authorIdx = i
		case ColumnISBN:
			isbnIdx = i
		}
	}
	if titleIdx < 0 && authorIdx < 0 && isbnIdx < 0 {
		return nil, fmt.Errorf("input file has none of the %s, %s, %s columns", ColumnTitle, ColumnAuthor, ColumnISBN)
	}

	field := func(record []string, idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var queries []models.BookQuery
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read input row: %w", err)
		}
		queries = append(queries, models.BookQuery{
			Title:  field(record, titleIdx),
			Author: field(record, authorIdx),
			ISBN:   field(record, isbnIdx),
		})
	}
	return queries, nil
}

// Load reads book queries from a file.
func Load(filename string) ([]models.BookQuery, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()
	return Read(f)
}
