package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlvalidator/pkg/contracts/domain"
)

// dateTimeTable builds a two-column table from parallel date and time
// text values; "" becomes an empty cell.
func dateTimeTable(dates, times []string) domain.Table {
	table := domain.Table{Columns: []string{"A", "B"}}
	for i := range dates {
		row := make([]domain.Cell, 2)
		if dates[i] == "" {
			row[0] = domain.EmptyCell()
		} else {
			row[0] = domain.TextCell(dates[i])
		}
		if times[i] == "" {
			row[1] = domain.EmptyCell()
		} else {
			row[1] = domain.TextCell(times[i])
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func TestValidateDateTimeCleanSequence(t *testing.T) {
	table := dateTimeTable(
		[]string{"01.01.2024", "01.01.2024", "01.01.2024"},
		[]string{"00:00:00", "00:01:00", "00:02:00"},
	)

	report := domain.NewSheetReport("Data")
	ValidateDateTime(table, SequenceOptions{DateCol: 0, TimeCol: 1}, report, nil)

	assert.True(t, report.IsValid)
	assert.Equal(t, "02.01.2006", report.DateFormat.Pattern)
	assert.Equal(t, "15:04:05", report.TimeFormat.Pattern)
	assert.Equal(t, "1 minute", report.Interval)
	assert.Equal(t, 3, report.RowsValidated)
	assert.Len(t, report.ColumnsValidated, 2)
}

func TestValidateDateTimeSequenceBreak(t *testing.T) {
	table := dateTimeTable(
		[]string{"01.01.2024", "01.01.2024", "01.01.2024", "01.01.2024"},
		[]string{"00:00:00", "00:01:00", "00:05:00", "00:06:00"},
	)

	report := domain.NewSheetReport("Data")
	ValidateDateTime(table, SequenceOptions{DateCol: 0, TimeCol: 1}, report, nil)

	assert.False(t, report.IsValid)
	require.Len(t, report.Issues[domain.IssueDateTimeSequence], 1)
	assert.Equal(t,
		"Rows 2-3: DateTime sequence broken. Expected 01.01.2024 00:02:00, got 01.01.2024 00:05:00",
		report.Issues[domain.IssueDateTimeSequence][0])
}

func TestValidateDateTimeToleratesOneSecondJitter(t *testing.T) {
	table := dateTimeTable(
		[]string{"01.01.2024", "01.01.2024", "01.01.2024", "01.01.2024"},
		[]string{"00:00:00", "00:01:00", "00:02:01", "00:03:00"},
	)

	report := domain.NewSheetReport("Data")
	ValidateDateTime(table, SequenceOptions{DateCol: 0, TimeCol: 1}, report, nil)

	assert.Empty(t, report.Issues[domain.IssueDateTimeSequence])
}

func TestValidateDateTimeNullValues(t *testing.T) {
	table := dateTimeTable(
		[]string{"01.01.2024", "", "01.01.2024"},
		[]string{"00:00:00", "00:01:00", ""},
	)

	report := domain.NewSheetReport("Data")
	ValidateDateTime(table, SequenceOptions{DateCol: 0, TimeCol: 1}, report, nil)

	require.Len(t, report.Issues[domain.IssueDateTime], 2)
	assert.Equal(t, "Row 2, Column A: Empty/Null date value", report.Issues[domain.IssueDateTime][0])
	assert.Equal(t, "Row 3, Column B: Empty/Null time value", report.Issues[domain.IssueDateTime][1])
}

func TestValidateDateTimeLockedFormatViolation(t *testing.T) {
	// The first row locks the dotted day-first format; the ISO row
	// then fails against the locked pattern even though it would parse
	// on its own.
	table := dateTimeTable(
		[]string{"01.01.2024", "2024-01-02"},
		[]string{"00:00:00", "00:01:00"},
	)

	report := domain.NewSheetReport("Data")
	ValidateDateTime(table, SequenceOptions{DateCol: 0, TimeCol: 1}, report, nil)

	require.Len(t, report.Issues[domain.IssueDateTimeFormat], 1)
	assert.Equal(t,
		`Row 2, Column A: Date "2024-01-02" doesn't match format 02.01.2006`,
		report.Issues[domain.IssueDateTimeFormat][0])
}

func TestValidateDateTimeNativeColumnRejectsText(t *testing.T) {
	table := domain.Table{
		Columns: []string{"A", "B"},
		Rows: [][]domain.Cell{
			{domain.DateTimeCell(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), domain.TextCell("00:00:00")},
			{domain.TextCell("01.01.2024"), domain.TextCell("00:01:00")},
		},
	}

	report := domain.NewSheetReport("Data")
	ValidateDateTime(table, SequenceOptions{DateCol: 0, TimeCol: 1}, report, nil)

	assert.True(t, report.DateFormat.Native())
	require.Len(t, report.Issues[domain.IssueDateTimeFormat], 1)
	assert.Contains(t, report.Issues[domain.IssueDateTimeFormat][0], "text in a native date-time column")
}

func TestValidateDateTimeStartRow(t *testing.T) {
	table := dateTimeTable(
		[]string{"Date", "01.01.2024", "01.01.2024"},
		[]string{"Time", "00:00:00", "00:01:00"},
	)

	report := domain.NewSheetReport("Data")
	ValidateDateTime(table, SequenceOptions{DateCol: 0, TimeCol: 1, StartRow: 1}, report, nil)

	assert.True(t, report.IsValid)
	assert.Equal(t, 2, report.RowsValidated)
}

func TestValidateDateTimeOutOfRange(t *testing.T) {
	table := dateTimeTable([]string{"01.01.2024"}, []string{"00:00:00"})

	report := domain.NewSheetReport("Data")
	ValidateDateTime(table, SequenceOptions{DateCol: 0, TimeCol: 1, StartRow: 5}, report, nil)

	assert.True(t, report.IsValid)
	assert.Zero(t, report.RowsValidated)
	assert.Empty(t, report.ColumnsValidated)
}
