// Package engine orchestrates one validation run: it compares a data
// workbook against a template workbook and produces the full report as
// a pure function of the two workbooks and the engine configuration.
package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"xlvalidator/internal/checks"
	"xlvalidator/internal/config"
	"xlvalidator/internal/timeseries"
	"xlvalidator/pkg/contracts/domain"
)

// Run validates data against template under cfg and returns the
// complete report. Both workbooks are only read, never mutated, and
// repeated runs over the same inputs yield identical reports.
//
// No single sheet can abort the run: a panic while processing one
// sheet marks that sheet's report with Error status and processing
// continues with the remaining sheets.
func Run(template, data *domain.Workbook, cfg config.EngineConfig, logger *slog.Logger) (*domain.Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, all, err := cfg.Rows()
	if err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	if err := cfg.CheckColumns(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}

	report := &domain.Report{
		TemplateFile: template.Name,
		DataFile:     data.Name,
	}

	logger.Info("Starting validation run",
		slog.String("template", template.Name),
		slog.String("data", data.Name))

	report.Sheets = checks.CompareSheets(template, data)
	common := checks.CommonSheets(template, data)

	for _, sheet := range common {
		templateTable := template.Sheets[sheet]
		dataTable := data.Sheets[sheet]
		rowsToCheck := rows
		if all {
			rowsToCheck = allRows(templateTable, dataTable)
		}
		report.Cells = append(report.Cells, checks.CompareCells(sheet, templateTable, dataTable, rowsToCheck))
	}

	report.RowCounts = checks.ValidateRowCounts(template, data, logger)

	for _, sheet := range sortedSheets(data) {
		report.Data = append(report.Data, validateSheetData(data.Sheets[sheet], sheet, cfg, logger))
	}

	for _, sheet := range sortedSheets(data) {
		report.Gaps = append(report.Gaps, analyzeSheetGaps(data.Sheets[sheet], sheet, cfg, logger))
	}

	report.Valid = overallValid(report)
	logger.Info("Validation run complete",
		slog.String("data", data.Name),
		slog.Bool("valid", report.Valid))
	return report, nil
}

// validateSheetData runs the date/time and numeric-region passes for
// one sheet, isolating panics to that sheet's report.
func validateSheetData(table domain.Table, sheet string, cfg config.EngineConfig, logger *slog.Logger) (report *domain.SheetReport) {
	report = domain.NewSheetReport(sheet)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Sheet validation failed",
				slog.String("sheet", sheet),
				slog.String("error", fmt.Sprintf("%v", rec)))
			report.Error = fmt.Sprintf("%v", rec)
			report.IsValid = false
		}
	}()

	timeseries.ValidateDateTime(table, timeseries.SequenceOptions{
		DateCol:  cfg.DateColumnIndex(),
		TimeCol:  cfg.TimeColumnIndex(),
		StartRow: cfg.DateTimeStartRow - 1,
	}, report, logger)

	checks.ValidateNumericRegion(table, cfg.NumericStartRow-1, cfg.NumericStartColumnIndex(), report, logger)
	return report
}

// analyzeSheetGaps runs gap analysis over one sheet's timestamp column
func analyzeSheetGaps(table domain.Table, sheet string, cfg config.EngineConfig, logger *slog.Logger) (report domain.GapReport) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Gap analysis failed",
				slog.String("sheet", sheet),
				slog.String("error", fmt.Sprintf("%v", rec)))
			report = domain.GapReport{Sheet: sheet, Insufficient: true}
		}
	}()

	start := cfg.GapStartRow - 1
	column := table.Column(cfg.DateColumnIndex())
	if start >= len(column) {
		return domain.GapReport{Sheet: sheet, Insufficient: true}
	}
	instants := timeseries.ExtractInstants(column[start:])
	return timeseries.AnalyzeGaps(sheet, instants, cfg.GapOverride(), logger)
}

// overallValid aggregates the structural, row-count and content checks.
// Gap findings are advisory and do not flip overall validity; sequence
// irregularities already surface through the data reports.
func overallValid(report *domain.Report) bool {
	if !report.Sheets.Match() {
		return false
	}
	for _, c := range report.Cells {
		if !c.Valid() {
			return false
		}
	}
	for _, rc := range report.RowCounts {
		if rc.Status == domain.RowCountIncorrect || rc.Status == domain.RowCountError {
			return false
		}
	}
	for _, d := range report.Data {
		if !d.IsValid {
			return false
		}
	}
	return true
}

// allRows expands "all rows" into the indices present in both tables
func allRows(template, data domain.Table) []int {
	n := template.RowCount()
	if data.RowCount() < n {
		n = data.RowCount()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// sortedSheets returns the workbook's sheet names in sorted order so
// report ordering does not depend on sheet order in the source file.
func sortedSheets(wb *domain.Workbook) []string {
	names := make([]string, len(wb.SheetNames))
	copy(names, wb.SheetNames)
	sort.Strings(names)
	return names
}
