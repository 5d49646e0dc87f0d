package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/danielolaszy/glissues/internal/apperr"
	"github.com/danielolaszy/glissues/internal/logging"
	"github.com/danielolaszy/glissues/pkg/models"
)

// Header is the fixed first row of every export. Its order is part of the
// output format and must not change.
var Header = []string{
	"ID",
	"Título",
	"Descripción",
	"Autor",
	"Estado",
	"Asignados",
	"Etiquetas",
	"Fecha de creación",
	"Tiempo estimado",
	"Tiempo gastado",
}

const (
	// SheetName names the single worksheet of the workbook.
	SheetName = "GitLab Issues"

	maxColumnWidth = 50
)

// DefaultFilename returns the output name used when none is given.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("gitlab_issues_%s.xlsx", now.Format("20060102_150405"))
}

// Writer serializes records to an .xlsx workbook.
type Writer struct{}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write stores the header and one row per record at path. The workbook is
// written to a temporary file next to path and renamed into place, so path
// is either complete or untouched. A value too long for a cell fails the
// write instead of being cut.
func (w *Writer) Write(path string, records []models.IssueRecord) error {
	if err := checkCellLengths(records); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := fill(f, records); err != nil {
		return apperr.Wrap(apperr.KindIO, err, "failed to build workbook")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".glissues-*.xlsx")
	if err != nil {
		return apperr.Wrap(apperr.KindIO, err, "failed to create output file in %s", filepath.Dir(path))
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return apperr.Wrap(apperr.KindIO, err, "failed to write workbook")
	}
	if err := tmp.Close(); err != nil {
		return apperr.Wrap(apperr.KindIO, err, "failed to write workbook")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return apperr.Wrap(apperr.KindIO, err, "failed to set permissions on %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return apperr.Wrap(apperr.KindIO, err, "failed to move workbook to %s", path)
	}
	committed = true

	logging.Debug("workbook written", "path", path, "rows", len(records)+1)
	return nil
}

// checkCellLengths rejects the first record holding a value longer than
// excelize.TotalCellChars.
func checkCellLengths(records []models.IssueRecord) error {
	for _, record := range records {
		for i, v := range Row(record) {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if n := utf8.RuneCountInString(s); n > excelize.TotalCellChars {
				return apperr.New(apperr.KindMalformed,
					"issue %d: %s has %d characters, a spreadsheet cell holds at most %d",
					record.ID, Header[i], n, excelize.TotalCellChars)
			}
		}
	}
	return nil
}

// fill lays out the header, the data rows and the column widths.
func fill(f *excelize.File, records []models.IssueRecord) error {
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	widths := make([]int, len(Header))
	track := func(values []any) {
		for i, v := range values {
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	track(header)

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := Row(record)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
		track(row)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return err
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, float64(min(width+2, maxColumnWidth))); err != nil {
			return err
		}
	}
	return nil
}
