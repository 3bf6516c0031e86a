package match

// matcher.go selects the inventory rows that fall inside tolerance ranges.

import "github.com/roxaf/stockmatch/internal/table"

// MatchInventory returns the stocklot rows satisfying any of the given
// tolerance ranges: the item family must equal the range's family exactly
// and both weight and width must lie within the range's inclusive bounds.
//
// Selections are concatenated in range order. Because each range carries a
// distinct family and family equality partitions inventory rows, no row can
// appear twice. Rows whose weight or width is not numeric never match.
//
// An empty range list, or ranges that select nothing, yield an empty table;
// neither is a failure.
func MatchInventory(inv *table.Table, ranges []ToleranceRange, kw Keywords) (*table.Table, error) {
	rm := Resolve(inv.Columns, kw, RoleItemFamily, RoleWeight, RoleWidth)
	if err := rm.Require(inv.Name, RoleItemFamily, RoleWeight, RoleWidth); err != nil {
		return nil, err
	}

	familyCol := inv.ColumnIndex(rm[RoleItemFamily])
	weightCol := inv.ColumnIndex(rm[RoleWeight])
	widthCol := inv.ColumnIndex(rm[RoleWidth])

	out := table.New(inv.Name, inv.Columns)
	for _, r := range ranges {
		for _, row := range inv.Rows {
			if cell(row, familyCol) != r.ItemFamily {
				continue
			}
			weight, ok := table.ToNumber(cell(row, weightCol))
			if !ok || weight < r.WeightMin || weight > r.WeightMax {
				continue
			}
			width, ok := table.ToNumber(cell(row, widthCol))
			if !ok || width < r.WidthMin || width > r.WidthMax {
				continue
			}
			out.AppendRow(row)
		}
	}
	return out, nil
}
