package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"xlvalidator/pkg/contracts/domain"
)

func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Header"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", 42))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "01.01.2024"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 1.5))

	_, err := f.NewSheet("Readings")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Readings", "A1", "only"))

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeTestWorkbook(t)

	wb, err := NewLoader(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fixture.xlsx", wb.Name)
	assert.Equal(t, []string{"Sheet1", "Readings"}, wb.SheetNames)
	require.True(t, wb.HasSheet("Sheet1"))
	require.True(t, wb.HasSheet("Readings"))

	sheet := wb.Sheets["Sheet1"]
	assert.Equal(t, 2, sheet.ColumnCount())
	assert.Equal(t, []string{"A", "B"}, sheet.Columns)
	require.Equal(t, 2, sheet.RowCount())

	assert.Equal(t, domain.CellKindText, sheet.CellAt(0, 0).Kind)
	assert.Equal(t, "Header", sheet.CellAt(0, 0).String())
	assert.Equal(t, domain.CellKindNumber, sheet.CellAt(0, 1).Kind)
	assert.Equal(t, "42", sheet.CellAt(0, 1).String())
	assert.Equal(t, domain.CellKindText, sheet.CellAt(1, 0).Kind)
	assert.Equal(t, domain.CellKindNumber, sheet.CellAt(1, 1).Kind)
	assert.InDelta(t, 1.5, sheet.CellAt(1, 1).Number, 1e-9)
}

func TestLoaderLoadPadsRaggedRows(t *testing.T) {
	path := writeTestWorkbook(t)

	wb, err := NewLoader(nil).Load(path)
	require.NoError(t, err)

	// Readings only populates A1; every row still spans the full width.
	sheet := wb.Sheets["Readings"]
	for r := 0; r < sheet.RowCount(); r++ {
		require.Len(t, sheet.Rows[r], sheet.ColumnCount())
	}
}

func TestLoaderLoadKeepsWhitespaceCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "   "))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "x"))

	path := filepath.Join(t.TempDir(), "blanks.xlsx")
	require.NoError(t, f.SaveAs(path))

	wb, err := NewLoader(nil).Load(path)
	require.NoError(t, err)

	// A whitespace-only cell reads as text, not as an absent value.
	cell := wb.Sheets["Sheet1"].CellAt(0, 0)
	assert.Equal(t, domain.CellKindText, cell.Kind)
	assert.False(t, cell.IsEmpty())
	assert.Equal(t, "", cell.String())
}

func TestLoaderLoadRejectsNonExcelPaths(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "wrong extension", path: "report.csv"},
		{name: "no extension", path: "report"},
		{name: "excel lock file", path: "~$report.xlsx"},
	}

	loader := NewLoader(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}
