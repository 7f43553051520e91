package workbook

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"xlvalidator/pkg/contracts/domain"
)

// Loader reads Excel workbooks into the domain model. Sheet order and
// column shape are preserved from the source file; every cell is mapped
// onto the closed cell union so downstream checks get typed dispatch.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load opens the Excel file at path and reads every sheet
func (l *Loader) Load(path string) (*domain.Workbook, error) {
	if err := checkExcelPath(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	wb := &domain.Workbook{
		Name:   filepath.Base(path),
		Sheets: make(map[string]domain.Table),
	}

	for _, name := range f.GetSheetList() {
		table, err := l.loadSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		wb.SheetNames = append(wb.SheetNames, name)
		wb.Sheets[name] = table
	}

	l.logger.Info("Workbook loaded",
		slog.String("file", wb.Name),
		slog.Int("sheets", len(wb.SheetNames)))
	return wb, nil
}

// loadSheet reads one sheet into a table, padding ragged rows so every
// row has the table's full column count.
func (l *Loader) loadSheet(f *excelize.File, sheet string) (domain.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Table{}, err
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	table := domain.Table{
		Columns: make([]string, cols),
		Rows:    make([][]domain.Cell, 0, len(rows)),
	}
	for c := 0; c < cols; c++ {
		table.Columns[c] = IndexToLabel(c)
	}

	for r, row := range rows {
		cells := make([]domain.Cell, cols)
		for c := 0; c < cols; c++ {
			text := ""
			if c < len(row) {
				text = row[c]
			}
			cells[c] = l.loadCell(f, sheet, r, c, text)
		}
		table.Rows = append(table.Rows, cells)
	}

	l.logger.Debug("Sheet read",
		slog.String("sheet", sheet),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", cols))
	return table, nil
}

// loadCell maps one spreadsheet cell onto the cell union. Number cells
// whose display value is not numeric are date-formatted serials and
// become structured date-time cells. Whitespace-only text stays a text
// cell so downstream checks can tell a blank-looking cell from a truly
// absent one.
func (l *Loader) loadCell(f *excelize.File, sheet string, row, col int, text string) domain.Cell {
	if text == "" {
		return domain.EmptyCell()
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return domain.TextCell(text)
	}

	ctype, err := f.GetCellType(sheet, axis)
	if err != nil {
		return domain.TextCell(text)
	}

	switch ctype {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err != nil {
			return domain.TextCell(text)
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return domain.TextCell(text)
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return domain.NumberCell(serial)
		}
		// Display text is non-numeric, so the number format is a date style.
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return domain.DateTimeCell(t)
		}
		return domain.NumberCell(serial)
	case excelize.CellTypeDate:
		raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err == nil {
			if t, perr := parseISODateTime(strings.TrimSpace(raw)); perr == nil {
				return domain.DateTimeCell(t)
			}
		}
		return domain.TextCell(text)
	default:
		return domain.TextCell(text)
	}
}

// parseISODateTime parses the ISO 8601 forms excelize stores for
// date-typed cells.
func parseISODateTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date value %q", s)
}

// checkExcelPath rejects paths that are not Excel workbooks, including
// the ~$ lock files Excel leaves next to open documents.
func checkExcelPath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xls" {
		return fmt.Errorf("file %s is not an Excel file (extension: %s)", path, ext)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}
	return nil
}
