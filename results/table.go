// Package results accumulates per-book pricing results for one run and
// projects them into export-ready tabular form.
package results

import "github.com/aluiziolira/go-price-books/models"

// Table is an ordered, append-only accumulation of BookResult, index
// aligned with the input book list. The run worker is its only writer, so
// no locking is needed; readers receive copies.
type Table struct {
	rows []models.BookResult
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Append records one result. Results arrive in input order and are
// immutable afterward.
func (t *Table) Append(r models.BookResult) {
	t.rows = append(t.rows, r)
}

// Len reports the number of recorded results.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the recorded results in input order.
func (t *Table) Rows() []models.BookResult {
	out := make([]models.BookResult, len(t.rows))
	copy(out, t.rows)
	return out
}

// Reset clears the table for a new run.
func (t *Table) Reset() {
	t.rows = nil
}

// Export writes every recorded result through w.
func (t *Table) Export(w ResultWriter) error {
	return w.Write(t.rows)
}
