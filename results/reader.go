package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aluiziolira/go-price-books/models"
)

// ReadCSV re-loads a previously exported table. Blank numeric fields come
// back as undefined. The strategy tag is not a column of its own; it is
// reconstructed by comparing the search term with the row's ISBN.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range Header {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(record []string, name string) string {
		return record[index[name]]
	}

	table := NewTable()
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		row := models.BookResult{
			Query: models.BookQuery{
				Title:  field(record, "Title"),
				Author: field(record, "Author"),
				ISBN:   field(record, "ISBN"),
			},
			Status:      models.Status(field(record, "Status")),
			ErrorDetail: field(record, "ErrorDetail"),
		}

		if term := field(record, "SearchTermUsed"); term != "" {
			strategy := models.StrategyTitleAuthor
			if term == strings.TrimSpace(row.Query.ISBN) {
				strategy = models.StrategyISBN
			}
			row.SearchTermUsed = models.SearchTerm{Query: term, Strategy: strategy}
		}

		if row.ListingCount, err = parseCount(field(record, "ListingCount")); err != nil {
			return nil, fmt.Errorf("line %d: listing count: %w", line, err)
		}
		if row.SellerCount, err = parseCount(field(record, "SellerCount")); err != nil {
			return nil, fmt.Errorf("line %d: seller count: %w", line, err)
		}

		if row.AveragePrice, err = parseDecimal(field(record, "AveragePrice")); err != nil {
			return nil, fmt.Errorf("line %d: average price: %w", line, err)
		}
		if row.MinPrice, err = parseDecimal(field(record, "MinPrice")); err != nil {
			return nil, fmt.Errorf("line %d: min price: %w", line, err)
		}
		if row.MaxPrice, err = parseDecimal(field(record, "MaxPrice")); err != nil {
			return nil, fmt.Errorf("line %d: max price: %w", line, err)
		}
		if row.AverageShipping, err = parseDecimal(field(record, "AverageShipping")); err != nil {
			return nil, fmt.Errorf("line %d: average shipping: %w", line, err)
		}

		table.Append(row)
	}
	return table, nil
}

// LoadCSV reads an exported table from a file.
func LoadCSV(filename string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseCount(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return strconv.Atoi(text)
}

func parseDecimal(text string) (*decimal.Decimal, error) {
	if text == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
