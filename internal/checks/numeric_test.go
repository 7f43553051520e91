package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlvalidator/pkg/contracts/domain"
)

func TestValidateNumericRegion(t *testing.T) {
	table := makeTable(
		textRow("Date", "Time", "Sensor1", "Sensor2"),
		[]domain.Cell{domain.TextCell("01.01.2024"), domain.TextCell("00:00:00"), domain.NumberCell(1.5), domain.TextCell("   ")},
		[]domain.Cell{domain.TextCell("01.01.2024"), domain.TextCell("00:01:00"), domain.TextCell("abc"), domain.EmptyCell()},
		[]domain.Cell{domain.TextCell("01.01.2024"), domain.TextCell("00:02:00"), domain.TextCell("12#5"), domain.TextCell("1.2.3")},
	)

	report := domain.NewSheetReport("Data")
	ValidateNumericRegion(table, 1, 2, report, nil)

	// Three data rows across two sensor columns.
	assert.Equal(t, 6, report.CellsValidated)
	assert.Len(t, report.ColumnsValidated, 2)
	assert.False(t, report.IsValid)

	require.Len(t, report.Issues[domain.IssueAlphabetic], 1)
	assert.Contains(t, report.Issues[domain.IssueAlphabetic][0], "Cell C3")
	assert.Contains(t, report.Issues[domain.IssueAlphabetic][0], `"abc"`)

	require.Len(t, report.Issues[domain.IssueNull], 1)
	assert.Contains(t, report.Issues[domain.IssueNull][0], "Cell D3")
	assert.Contains(t, report.Issues[domain.IssueNull][0], "Null/Empty value found")

	require.Len(t, report.Issues[domain.IssueSpecialChar], 1)
	assert.Contains(t, report.Issues[domain.IssueSpecialChar][0], "Cell C4")

	require.Len(t, report.Issues[domain.IssueNumeric], 1)
	assert.Contains(t, report.Issues[domain.IssueNumeric][0], "Cell D4")
	assert.Contains(t, report.Issues[domain.IssueNumeric][0], "is not numeric")

	require.Len(t, report.Issues[domain.IssueEmptyCell], 1)
	assert.Contains(t, report.Issues[domain.IssueEmptyCell][0], "Cell D2")
	assert.Contains(t, report.Issues[domain.IssueEmptyCell][0], "Empty cell found")
}

func TestValidateNumericRegionCleanSheet(t *testing.T) {
	table := makeTable(
		textRow("Date", "Time", "Sensor1"),
		[]domain.Cell{domain.TextCell("01.01.2024"), domain.TextCell("00:00:00"), domain.NumberCell(1)},
		[]domain.Cell{domain.TextCell("01.01.2024"), domain.TextCell("00:01:00"), domain.TextCell("-2.5")},
	)

	report := domain.NewSheetReport("Data")
	ValidateNumericRegion(table, 1, 2, report, nil)

	assert.True(t, report.IsValid)
	assert.Equal(t, 2, report.CellsValidated)
	assert.Zero(t, report.IssueCount())
}

func TestValidateNumericRegionOutOfRange(t *testing.T) {
	table := makeTable(textRow("only header"))

	report := domain.NewSheetReport("Data")
	ValidateNumericRegion(table, 5, 0, report, nil)

	assert.True(t, report.IsValid)
	assert.Zero(t, report.CellsValidated)
}

func TestValidateNumericRegionStopsAtLastDataColumn(t *testing.T) {
	// Column D exists in the grid but holds no data anywhere, so the
	// region ends at column C.
	table := domain.Table{
		Columns: []string{"A", "B", "C", "D"},
		Rows: [][]domain.Cell{
			{domain.TextCell("h1"), domain.TextCell("h2"), domain.TextCell("h3"), domain.EmptyCell()},
			{domain.TextCell("x"), domain.TextCell("y"), domain.NumberCell(1), domain.EmptyCell()},
		},
	}

	report := domain.NewSheetReport("Data")
	ValidateNumericRegion(table, 1, 2, report, nil)

	assert.Equal(t, 1, report.CellsValidated)
	assert.Len(t, report.ColumnsValidated, 1)
}
