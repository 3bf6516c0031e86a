package match

import "github.com/roxaf/stockmatch/internal/table"

// newTable builds a test table from literal rows.
func newTable(name string, columns []string, rows ...[]string) *table.Table {
	t := table.New(name, columns)
	for _, row := range rows {
		t.AppendRow(row)
	}
	return t
}

// needsTable builds a requirements table with the standard test columns.
func needsTable(rows ...[]string) *table.Table {
	return newTable("needs.xlsx",
		[]string{"Client", "Item Family", "Grammage", "Laize", "Priority"},
		rows...)
}

// stocklotTable builds an inventory table with the standard test columns.
func stocklotTable(rows ...[]string) *table.Table {
	return newTable("stocklot.xlsx",
		[]string{"Lot", "Item Family", "Grammage", "Laize"},
		rows...)
}
