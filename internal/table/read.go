package table

// read.go turns uploaded spreadsheet files into Table values.
//
// Two formats are accepted: xlsx workbooks (first worksheet only, via
// excelize) and CSV exports. The first row is always the header. Rows are
// padded to the header width so downstream code can index columns without
// bounds worries.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyFile is returned when the uploaded file has no header row.
var ErrEmptyFile = errors.New("empty file: no header row found")

// Read parses an uploaded file into a Table, dispatching on the file
// extension. The name is kept on the table for error reporting.
func Read(name string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(name, r)
	case ".csv":
		return ReadCSV(name, r)
	default:
		return nil, fmt.Errorf("unsupported file type %q: upload .xlsx or .csv", filepath.Ext(name))
	}
}

// ReadXLSX parses the first worksheet of an xlsx workbook.
func ReadXLSX(name string, r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return fromRows(name, rows), nil
}

// ReadCSV parses a comma-separated file. Records may be ragged; short rows
// are padded to the header width.
func ReadCSV(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged exports

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	return fromRows(name, records), nil
}

// fromRows builds a Table from raw records, treating the first as header.
func fromRows(name string, rows [][]string) *Table {
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeHeader(h)
	}

	t := New(name, header)
	for _, row := range rows[1:] {
		t.AppendRow(row)
	}
	return t
}
