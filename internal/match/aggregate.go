package match

// aggregate.go turns a client's requirement rows into tolerance ranges.

import (
	"sort"

	"github.com/roxaf/stockmatch/internal/table"
)

// ToleranceRange is the per-item-family numeric envelope derived from a
// client's requirement rows. Bounds are inclusive. Min never exceeds Max
// because both come from the same coerced sample.
type ToleranceRange struct {
	ItemFamily string
	WeightMin  float64
	WeightMax  float64
	WidthMin   float64
	WidthMax   float64
}

// Aggregation is the result of aggregating one client's needs.
// DroppedRows counts requirement rows discarded because their weight or
// width value was not numeric; the loss is silent at this level but the
// count is reported upward so callers can log it.
type Aggregation struct {
	Client      string
	Ranges      []ToleranceRange
	DroppedRows int
}

// AggregateNeeds selects the requirement rows for one client and reduces
// them to one ToleranceRange per item family.
//
// The client lookup is an exact, case-sensitive string match. Rows whose
// weight or width does not coerce to a number are dropped. If every selected
// row is dropped, the result carries zero ranges, which downstream matching
// treats the same as "no match" rather than a failure.
func AggregateNeeds(reqs *table.Table, client string, kw Keywords) (*Aggregation, error) {
	rm := Resolve(reqs.Columns, kw, RoleClient, RoleItemFamily, RoleWeight, RoleWidth)
	if err := rm.Require(reqs.Name, RoleClient, RoleItemFamily, RoleWeight, RoleWidth); err != nil {
		return nil, err
	}

	clientCol := reqs.ColumnIndex(rm[RoleClient])
	familyCol := reqs.ColumnIndex(rm[RoleItemFamily])
	weightCol := reqs.ColumnIndex(rm[RoleWeight])
	widthCol := reqs.ColumnIndex(rm[RoleWidth])

	selected := reqs.Filter(func(row []string) bool {
		return cell(row, clientCol) == client
	})
	if selected.Empty() {
		return nil, &NoRequirementsError{Client: client}
	}

	agg := &Aggregation{Client: client}
	groups := make(map[string]*ToleranceRange)

	for i := range selected.Rows {
		weight, wOK := table.ToNumber(selected.Cell(i, weightCol))
		width, lOK := table.ToNumber(selected.Cell(i, widthCol))
		if !wOK || !lOK {
			agg.DroppedRows++
			continue
		}

		family := selected.Cell(i, familyCol)
		r, ok := groups[family]
		if !ok {
			groups[family] = &ToleranceRange{
				ItemFamily: family,
				WeightMin:  weight, WeightMax: weight,
				WidthMin: width, WidthMax: width,
			}
			continue
		}
		r.WeightMin = min(r.WeightMin, weight)
		r.WeightMax = max(r.WeightMax, weight)
		r.WidthMin = min(r.WidthMin, width)
		r.WidthMax = max(r.WidthMax, width)
	}

	// Emit ranges in sorted family order for deterministic output.
	families := make([]string, 0, len(groups))
	for f := range groups {
		families = append(families, f)
	}
	sort.Strings(families)
	for _, f := range families {
		agg.Ranges = append(agg.Ranges, *groups[f])
	}

	return agg, nil
}

// cell indexes a raw row slice defensively, mirroring Table.Cell.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
