package table

// convert.go handles numeric interpretation of cell values.
//
// Spreadsheet exports are messy: currency symbols, thousands separators,
// accounting-style negatives, stray whitespace. ToNumber cleans these up
// before parsing so a "grammage" column holding "1,250" or "$80" still
// yields a usable number. Values that cannot be cleaned into a number are
// reported as not-a-number and the caller decides whether to drop the row.

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates a cleaned string as a numeric literal.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ToNumber converts a cell value to a float64.
// Returns false for empty cells and for values that are not numeric after
// cleanup.
func ToNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Accounting format "(123.45)" means negative
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Strip currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if negative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatNumber renders a float64 the way it is written back into exported
// sheets: shortest representation that round-trips.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
