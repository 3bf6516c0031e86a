// Package export renders match results as downloadable files.
//
// Results stay in memory: each output is a named byte-producing function,
// and whether the bytes land on disk, in an HTTP response, or inside a zip
// archive is the caller's business.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/roxaf/stockmatch/internal/match"
	"github.com/roxaf/stockmatch/internal/table"
)

// ContentTypeXLSX is the MIME type for xlsx attachments.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ContentTypeZip is the MIME type for zip archives.
const ContentTypeZip = "application/zip"

// NamedFile pairs a deterministic file name with a lazy byte producer.
// Produce is only invoked when the file is actually delivered.
type NamedFile struct {
	Name    string
	Produce func() ([]byte, error)
}

// Workbook renders a table as a single-sheet xlsx workbook: header row
// first, data rows below, no styling.
func Workbook(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i := range t.Rows {
		row := make([]interface{}, len(t.Columns))
		for j := range t.Columns {
			row[j] = t.Cell(i, j)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ResultFile wraps a match result as a named xlsx producer.
func ResultFile(res *match.Result) NamedFile {
	return NamedFile{
		Name:    res.FileName(),
		Produce: func() ([]byte, error) { return Workbook(res.Rows) },
	}
}

// BatchFiles wraps every result of a batch run, in result order.
func BatchFiles(batch *match.BatchResult) []NamedFile {
	files := make([]NamedFile, len(batch.Results))
	for i, res := range batch.Results {
		files[i] = ResultFile(res)
	}
	return files
}

// Archive bundles named files into a single zip, preserving order.
func Archive(files []NamedFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, nf := range files {
		data, err := nf.Produce()
		if err != nil {
			return nil, fmt.Errorf("produce %s: %w", nf.Name, err)
		}
		w, err := zw.Create(nf.Name)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", nf.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("archive %s: %w", nf.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
