package match

// priority.go partitions requirement rows into urgency buckets from the
// free-text priority column.

import (
	"strings"

	"github.com/roxaf/stockmatch/internal/table"
)

// Bucket is an urgency classification derived from free-text priority
// labels. The bucket name doubles as the label in exported file names.
type Bucket string

const (
	BucketUrgent       Bucket = "Urgent"
	BucketLessUrgent   Bucket = "Less Urgent"
	BucketLastPriority Bucket = "Last Priority"
	BucketGeneral      Bucket = "General"
)

// BucketOrder is the fixed processing order for batch operations.
var BucketOrder = []Bucket{BucketUrgent, BucketLessUrgent, BucketLastPriority, BucketGeneral}

// ClassifyByPriority splits the requirements table into the four urgency
// buckets by lowercased substring test on the priority column.
//
// The buckets are NOT disjoint: "less urgent" textually contains "urgent",
// so a row labeled "less urgent" lands in both the Urgent and Less Urgent
// buckets. This mirrors the long-standing classification rule the operators
// work with and must not be "fixed" here without redefining the rule.
// Only General is guaranteed disjoint from the other three: it collects rows
// matching none of the urgency phrases.
func ClassifyByPriority(reqs *table.Table, kw Keywords) (map[Bucket]*table.Table, error) {
	rm := Resolve(reqs.Columns, kw, RolePriority)
	if err := rm.Require(reqs.Name, RolePriority); err != nil {
		return nil, err
	}
	priorityCol := reqs.ColumnIndex(rm[RolePriority])

	priority := func(row []string) string {
		return strings.ToLower(cell(row, priorityCol))
	}

	return map[Bucket]*table.Table{
		BucketUrgent: reqs.Filter(func(row []string) bool {
			return strings.Contains(priority(row), "urgent")
		}),
		BucketLessUrgent: reqs.Filter(func(row []string) bool {
			return strings.Contains(priority(row), "less urgent")
		}),
		BucketLastPriority: reqs.Filter(func(row []string) bool {
			return strings.Contains(priority(row), "last priority")
		}),
		BucketGeneral: reqs.Filter(func(row []string) bool {
			p := priority(row)
			return !strings.Contains(p, "urgent") &&
				!strings.Contains(p, "less urgent") &&
				!strings.Contains(p, "last priority")
		}),
	}, nil
}
