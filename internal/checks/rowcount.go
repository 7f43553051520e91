package checks

import (
	"fmt"
	"log/slog"

	"xlvalidator/internal/timeseries"
	"xlvalidator/pkg/contracts/domain"
)

// anchorRow / anchorCol locate the embedded month date ("A7")
const (
	anchorRow = 6
	anchorCol = 0
)

// minutesPerDay is the row contribution of one day of 1-minute samples
const minutesPerDay = 60 * 24

// headerRows is the fixed number of header rows above the data region
const headerRows = 7

// isLeapYear follows the Gregorian rule
func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// daysInMonth returns the day count for a 1-12 month, accounting for
// leap years. Out-of-range months fall back to 30 days.
func daysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

// ExpectedRowCount derives the expected row count from the anchor date
// cell. The historical formula month * 60 * 24 * daysInMonth + 7
// multiplies by the month number, which is almost certainly a defect of
// the producing system; it is preserved verbatim for compatibility.
// The second return is the month's day count; ok is false when the cell
// is empty or unparseable.
func ExpectedRowCount(cell domain.Cell) (expected, monthDays int, ok bool) {
	var month, year int
	switch cell.Kind {
	case domain.CellKindDateTime:
		month, year = int(cell.Time.Month()), cell.Time.Year()
	case domain.CellKindText:
		t, parsed := timeseries.ParseDate(cell.String())
		if !parsed {
			return 0, 0, false
		}
		month, year = int(t.Month()), t.Year()
	default:
		return 0, 0, false
	}

	monthDays = daysInMonth(month, year)
	expected = month*minutesPerDay*monthDays + headerRows
	return expected, monthDays, true
}

// ValidateRowCounts checks every common sheet's actual row count
// against the count derived from its anchor date cell. A sheet that
// panics during processing is recorded with Error status; remaining
// sheets are still processed.
func ValidateRowCounts(template, data *domain.Workbook, logger *slog.Logger) []domain.RowCountCheck {
	if logger == nil {
		logger = slog.Default()
	}

	var results []domain.RowCountCheck
	for _, sheet := range CommonSheets(template, data) {
		results = append(results, checkSheetRowCount(sheet, template.Sheets[sheet], data.Sheets[sheet], logger))
	}
	return results
}

func checkSheetRowCount(sheet string, template, data domain.Table, logger *slog.Logger) (check domain.RowCountCheck) {
	check = domain.RowCountCheck{
		Sheet:        sheet,
		TemplateRows: template.RowCount(),
		DataRows:     data.RowCount(),
		Status:       domain.RowCountUnknown,
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Row count check failed",
				slog.String("sheet", sheet),
				slog.String("error", fmt.Sprintf("%v", rec)))
			check.Known = false
			check.ExpectedRows = 0
			check.MonthDays = 0
			check.Status = domain.RowCountError
		}
	}()

	if data.RowCount() < headerRows {
		logger.Warn("Sheet has fewer rows than the header block",
			slog.String("sheet", sheet),
			slog.Int("rows", data.RowCount()))
		return check
	}

	anchor := data.CellAt(anchorRow, anchorCol)
	if anchor.IsEmpty() {
		logger.Warn("Anchor date cell is empty", slog.String("sheet", sheet))
		return check
	}

	expected, monthDays, ok := ExpectedRowCount(anchor)
	if !ok {
		logger.Warn("Unable to parse anchor date",
			slog.String("sheet", sheet),
			slog.String("value", anchor.String()))
		return check
	}

	check.ExpectedRows = expected
	check.MonthDays = monthDays
	check.Known = true
	if data.RowCount() == expected {
		check.Status = domain.RowCountCorrect
	} else {
		check.Status = domain.RowCountIncorrect
	}
	return check
}
