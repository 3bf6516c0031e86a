// Package match implements the stocklot/client-needs matching engine.
//
// The engine takes two caller-supplied tables - available stocklot inventory
// and client requirement rows - and produces, per client, the inventory rows
// whose measured attributes fall inside that client's tolerance ranges.
// Column meaning is discovered by keyword rather than fixed position, so
// operators can upload exports with varying header names.
//
// The package is stateless: every call receives the tables it works on and
// nothing is cached between calls.
package match

import "strings"

// Role identifies the semantic meaning of a column.
type Role string

const (
	RoleClient     Role = "client"
	RoleItemFamily Role = "item_family"
	RoleWeight     Role = "weight_attr"
	RoleWidth      Role = "width_attr"
	RolePriority   Role = "priority"
)

// Keywords maps each role to the ordered list of header keywords that
// identify it. Matching is a case-insensitive substring test.
type Keywords map[Role][]string

// DefaultKeywords returns the built-in keyword configuration.
// The order within each list matters: earlier keywords are tried first.
func DefaultKeywords() Keywords {
	return Keywords{
		RoleClient:     {"client", "customer", "name"},
		RoleItemFamily: {"item family", "family", "item"},
		RoleWeight:     {"grammage", "weight", "gsm"},
		RoleWidth:      {"laize", "width", "size"},
		RolePriority:   {"priority", "urgency", "importance"},
	}
}

// RoleMap records which actual column satisfies each role for one table.
// It is built fresh per table per call and never cached: a re-uploaded table
// may rename its columns.
type RoleMap map[Role]string

// Resolve scans the column names in their given order and assigns to each
// requested role the first column whose name contains any of that role's
// keywords. Roles resolve independently: a column claimed by one role can
// also be claimed by another whose keywords it matches.
//
// Roles with no matching column are simply absent from the result; callers
// decide which roles their operation requires (see Require).
func Resolve(columns []string, keywords Keywords, roles ...Role) RoleMap {
	rm := make(RoleMap, len(roles))
	for _, role := range roles {
		if col, ok := findColumn(columns, keywords[role]); ok {
			rm[role] = col
		}
	}
	return rm
}

// Require verifies that every listed role resolved. It returns the first
// missing role as a SchemaError naming the table, so the operator sees which
// upload needs different headers.
func (rm RoleMap) Require(tableName string, roles ...Role) error {
	for _, role := range roles {
		if _, ok := rm[role]; !ok {
			return &SchemaError{Role: role, Table: tableName}
		}
	}
	return nil
}

// findColumn returns the first column whose lowercase name contains any of
// the keywords, trying columns in table order and keywords in config order.
func findColumn(columns []string, keywords []string) (string, bool) {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return col, true
			}
		}
	}
	return "", false
}
