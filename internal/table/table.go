// Package table provides the in-memory tabular data model shared by the
// matching engine and the web layer.
//
// A Table is an ordered set of named columns with string-valued rows, read
// from an uploaded spreadsheet. Tables are treated as read-only once built:
// operations that reshape data (filtering, selection) return new Table values
// and never modify the receiver, so a single uploaded table can safely back
// any number of match requests.
package table

import "strings"

// Table holds one uploaded dataset: a header row and its data rows.
// Cell values are kept as strings; numeric interpretation happens at the
// point of use via ToNumber.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given name and column set.
func New(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// ColumnIndex returns the position of the named column, or -1 if the table
// has no such column. Matching is exact: callers are expected to pass a name
// taken from Columns (typically via schema resolution).
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at the given row and column index.
// Short rows read as empty strings so ragged source data stays safe to index.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// AppendRow adds a row to the table. The row is padded or truncated to the
// column count so every stored row has a consistent width.
func (t *Table) AppendRow(row []string) {
	fixed := make([]string, len(t.Columns))
	copy(fixed, row)
	t.Rows = append(t.Rows, fixed)
}

// Filter returns a new table containing the rows for which keep returns true.
// Row slices are shared with the receiver; both tables are read-only.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := &Table{Name: t.Name, Columns: t.Columns}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// DistinctValues returns the distinct non-empty values of a column in
// first-seen order.
func (t *Table) DistinctValues(col int) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range t.Rows {
		v := t.Cell(i, col)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// normalizeHeader cleans a raw header cell: strips a UTF-8 BOM if present and
// trims surrounding whitespace. Column names otherwise keep their original
// casing so they can be shown back to the operator verbatim.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(s)
}
