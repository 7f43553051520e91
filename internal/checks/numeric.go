package checks

import (
	"fmt"
	"log/slog"

	"xlvalidator/internal/workbook"
	"xlvalidator/pkg/contracts/domain"
)

// ValidateNumericRegion classifies every cell of a sheet's numeric data
// region and records one issue per defective cell on the report.
// startRow and startCol are zero-based; the region extends to the last
// column that holds any data anywhere in the sheet.
func ValidateNumericRegion(table domain.Table, startRow, startCol int, report *domain.SheetReport, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if table.RowCount() <= startRow || startCol >= table.ColumnCount() {
		return
	}

	lastCol := -1
	for col := 0; col < table.ColumnCount(); col++ {
		for row := 0; row < table.RowCount(); row++ {
			if !table.CellAt(row, col).IsEmpty() {
				lastCol = col
				break
			}
		}
	}

	for col := startCol; col <= lastCol; col++ {
		label := workbook.IndexToLabel(col)
		report.ColumnsValidated = append(report.ColumnsValidated,
			fmt.Sprintf("Column %s: numeric validation", label))
		logger.Debug("Validating numeric column",
			slog.String("sheet", report.Sheet),
			slog.String("column", label))

		for row := startRow; row < table.RowCount(); row++ {
			report.CellsValidated++
			ref := workbook.CellRef(row, col)
			cell := table.CellAt(row, col)

			switch Classify(cell) {
			case ClassNumeric:
				// accepted
			case ClassNull:
				report.AddIssue(domain.IssueNull,
					fmt.Sprintf("Cell %s (Row %d, Column %s): Null/Empty value found", ref, row+1, label))
			case ClassEmptyString:
				report.AddIssue(domain.IssueEmptyCell,
					fmt.Sprintf("Cell %s (Row %d, Column %s): Empty cell found", ref, row+1, label))
			case ClassAlphabetic:
				report.AddIssue(domain.IssueAlphabetic,
					fmt.Sprintf("Cell %s (Row %d, Column %s): Contains alphabetical characters %q", ref, row+1, label, cell.String()))
			case ClassSpecialChar:
				report.AddIssue(domain.IssueSpecialChar,
					fmt.Sprintf("Cell %s (Row %d, Column %s): Contains special characters %q", ref, row+1, label, cell.String()))
			case ClassNonNumericOther:
				report.AddIssue(domain.IssueNumeric,
					fmt.Sprintf("Cell %s (Row %d, Column %s): Value %q is not numeric", ref, row+1, label, cell.String()))
			}
		}
	}
}
