package checks

import (
	"sort"

	"xlvalidator/internal/workbook"
	"xlvalidator/pkg/contracts/domain"
)

// CompareSheets compares the sheet-name sets of a template and data
// workbook. Missing lists template sheets absent from the data file,
// Extra lists data sheets the template does not have, and Comparison
// holds one row per sheet name in sorted order.
func CompareSheets(template, data *domain.Workbook) domain.SheetSetResult {
	result := domain.SheetSetResult{
		TemplateFile: template.Name,
		DataFile:     data.Name,
	}

	union := make(map[string]struct{})
	for _, name := range template.SheetNames {
		union[name] = struct{}{}
		if !data.HasSheet(name) {
			result.Missing = append(result.Missing, name)
		}
	}
	for _, name := range data.SheetNames {
		union[name] = struct{}{}
		if !template.HasSheet(name) {
			result.Extra = append(result.Extra, name)
		}
	}
	sort.Strings(result.Missing)
	sort.Strings(result.Extra)

	names := make([]string, 0, len(union))
	for name := range union {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		inTemplate := template.HasSheet(name)
		inData := data.HasSheet(name)
		status := domain.SheetStatusMatch
		if !inTemplate || !inData {
			status = domain.SheetStatusMissing
		}
		result.Comparison = append(result.Comparison, domain.SheetComparison{
			Sheet:      name,
			InTemplate: inTemplate,
			InData:     inData,
			Status:     status,
		})
	}
	return result
}

// CommonSheets returns the sorted sheet names present in both workbooks
func CommonSheets(template, data *domain.Workbook) []string {
	var common []string
	for _, name := range template.SheetNames {
		if data.HasSheet(name) {
			common = append(common, name)
		}
	}
	sort.Strings(common)
	return common
}

// CompareCells compares the requested rows of a template and data table
// cell by cell. For each row the comparison extends to the template
// row's watermark: the last column holding non-empty template data. A
// row with no template data produces no comparisons at all. Values are
// compared as trimmed strings, with empty and null both reading as "".
//
// A column-count mismatch is reported but does not suppress the cell
// comparison; columns that exist in both tables are still compared.
func CompareCells(sheet string, template, data domain.Table, rowsToCheck []int) domain.CellComparisonResult {
	result := domain.CellComparisonResult{
		Sheet:            sheet,
		ColumnCountMatch: template.ColumnCount() == data.ColumnCount(),
		TemplateColumns:  template.ColumnCount(),
		DataColumns:      data.ColumnCount(),
	}

	for _, row := range rowsToCheck {
		if row < 0 || row >= template.RowCount() || row >= data.RowCount() {
			continue
		}

		watermark := -1
		for col := 0; col < template.ColumnCount(); col++ {
			if template.CellAt(row, col).String() != "" {
				watermark = col
			}
		}
		if watermark < 0 {
			continue
		}

		last := watermark
		if max := data.ColumnCount() - 1; last > max {
			last = max
		}
		for col := 0; col <= last; col++ {
			templateValue := template.CellAt(row, col).String()
			dataValue := data.CellAt(row, col).String()
			result.CellsChecked++
			if templateValue == dataValue {
				continue
			}
			result.Mismatches = append(result.Mismatches, domain.CellMismatch{
				Cell:          workbook.CellRef(row, col),
				Row:           row,
				Column:        col,
				ColumnName:    columnName(template, col),
				TemplateValue: templateValue,
				DataValue:     dataValue,
			})
		}
	}
	return result
}

func columnName(t domain.Table, col int) string {
	if col >= 0 && col < len(t.Columns) {
		return t.Columns[col]
	}
	return workbook.IndexToLabel(col)
}
