package exporter

import (
	"fmt"
	"strconv"

	"xlvalidator/pkg/contracts/domain"
)

// gapTimestampFormat renders instants in gap CSV artifacts
const gapTimestampFormat = "2006-01-02 15:04:05"

// GapSummaryRecords renders a gap report as CSV header and records,
// one record per gap.
func GapSummaryRecords(report domain.GapReport) (headers []string, records [][]string) {
	headers = []string{"Gap Start", "Gap End", "Missing Minutes", "Missing Rows"}
	for _, gap := range report.Gaps {
		records = append(records, []string{
			gap.Start.Format(gapTimestampFormat),
			gap.End.Format(gapTimestampFormat),
			strconv.FormatFloat(gap.MissingMinutes, 'f', -1, 64),
			strconv.Itoa(gap.MissingCount),
		})
	}
	return headers, records
}

// MissingTimestampRecords renders a gap report's reconstructed
// timestamps as CSV header and records.
func MissingTimestampRecords(report domain.GapReport) (headers []string, records [][]string) {
	headers = []string{"Missing Timestamp"}
	for _, t := range report.Missing {
		records = append(records, []string{t.Format(gapTimestampFormat)})
	}
	return headers, records
}

// WriteGapArtifacts writes the gap summary and, when the report has
// reconstructed timestamps, the missing-timestamp list for one sheet.
func WriteGapArtifacts(writer *CSVWriter, report domain.GapReport) ([]string, error) {
	summaryName := fmt.Sprintf("gap_summary_%s.csv", report.Sheet)
	headers, records := GapSummaryRecords(report)
	if err := writer.WriteSimpleCSV(summaryName, headers, records); err != nil {
		return nil, fmt.Errorf("failed to write gap summary: %w", err)
	}
	written := []string{summaryName}

	if len(report.Missing) > 0 {
		missingName := fmt.Sprintf("missing_timestamps_%s.csv", report.Sheet)
		headers, records = MissingTimestampRecords(report)
		if err := writer.WriteSimpleCSV(missingName, headers, records); err != nil {
			return nil, fmt.Errorf("failed to write missing timestamps: %w", err)
		}
		written = append(written, missingName)
	}
	return written, nil
}
