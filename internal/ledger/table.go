// Package ledger holds the loosely typed tabular structure the analysis core
// consumes: named columns and an ordered sequence of rows whose cells may be
// strings, numbers, dates or nil.
package ledger

import (
	"strings"
)

// Table is a named-column table. Rows may be ragged; missing trailing cells
// read as nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

// New creates a table from column labels and rows.
func New(columns []string, rows [][]any) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the column labelled exactly name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// IndexFold returns the position of the first column whose trimmed label
// equals name case-insensitively, or -1.
func (t *Table) IndexFold(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

// Has reports whether a column labelled exactly name exists.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Value returns the cell at (row, col), or nil when the row is short.
func (t *Table) Value(row, col int) any {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return nil
	}
	r := t.Rows[row]
	if col >= len(r) {
		return nil
	}
	return r[col]
}

// Column returns a copy of the values of the named column, or nil if absent.
func (t *Table) Column(name string) []any {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]any, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Value(i, idx)
	}
	return out
}

// SetColumn replaces the named column's values, appending the column if it
// does not exist. values must have one entry per row.
func (t *Table) SetColumn(name string, values []any) {
	idx := t.Index(name)
	if idx < 0 {
		t.Columns = append(t.Columns, name)
		idx = len(t.Columns) - 1
	}
	for i := range t.Rows {
		for len(t.Rows[i]) <= idx {
			t.Rows[i] = append(t.Rows[i], nil)
		}
		if i < len(values) {
			t.Rows[i][idx] = values[i]
		} else {
			t.Rows[i][idx] = nil
		}
	}
}

// Rename relabels columns according to mapping (old label -> new label).
// Labels not in mapping are kept.
func (t *Table) Rename(mapping map[string]string) {
	for i, c := range t.Columns {
		if to, ok := mapping[c]; ok {
			t.Columns[i] = to
		}
	}
}

// Clone returns a copy that shares no slices with t. Cell values themselves
// are copied by value.
func (t *Table) Clone() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = make([]any, len(r))
		copy(rows[i], r)
	}
	return &Table{Columns: cols, Rows: rows}
}
