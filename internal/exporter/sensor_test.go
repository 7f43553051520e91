package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlvalidator/internal/config"
	"xlvalidator/pkg/contracts/domain"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		cell domain.Cell
		want string
	}{
		{name: "empty cell", cell: domain.EmptyCell(), want: ""},
		{
			name: "structured date-time",
			cell: domain.DateTimeCell(time.Date(2024, 1, 9, 10, 30, 0, 0, time.UTC)),
			want: "2024/01/09 10:30:00",
		},
		{
			name: "12-hour text",
			cell: domain.TextCell("01/09/2024 02:30:00 PM"),
			want: "2024/01/09 14:30:00",
		},
		{
			name: "double-space 12-hour text",
			cell: domain.TextCell("01/09/2024  02:30:00 PM"),
			want: "2024/01/09 14:30:00",
		},
		{
			name: "iso text",
			cell: domain.TextCell("2024-01-09 10:30:00"),
			want: "2024/01/09 10:30:00",
		},
		{
			name: "date-only text",
			cell: domain.TextCell("01/09/2024"),
			want: "2024/01/09 00:00:00",
		},
		{
			name: "excel serial number",
			cell: domain.NumberCell(45300),
			want: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).
				AddDate(0, 0, 45298).Format("2006/01/02 15:04:05"),
		},
		{name: "unrecognized text passes through", cell: domain.TextCell("soon"), want: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.cell))
		})
	}
}

func exportFixture() (data, template domain.Table) {
	data = domain.Table{
		Columns: []string{"Timestamp", "Pump Flow", "Tank Level"},
		Rows: [][]domain.Cell{
			{domain.TextCell("meta")},
			{
				domain.TextCell("2024-01-09 10:00:00"),
				domain.NumberCell(1.5),
				domain.NumberCell(80),
			},
			{
				domain.TextCell("2024-01-09 10:01:00"),
				domain.NumberCell(1.6),
				domain.NumberCell(79),
			},
		},
	}
	template = domain.Table{
		Columns: []string{"A", "B", "C"},
		Rows: [][]domain.Cell{
			{domain.EmptyCell(), domain.TextCell("Site1, Unit1"), domain.TextCell("Site1, Unit2")},
			{domain.EmptyCell(), domain.TextCell("Plant, Area"), domain.EmptyCell()},
		},
	}
	return data, template
}

func TestBuildSensorRecords(t *testing.T) {
	data, template := exportFixture()

	headers, records := BuildSensorRecords(data, template, SensorOptions{
		DataStartRow: 1,
		SensorCol:    1,
		AssetRow:     0,
		HierarchyRow: 1,
	})

	assert.Equal(t,
		[]string{"Timestamp", "Asset_1", "Asset_2", "Value", "Hierarchy_1", "Hierarchy_2"},
		headers)
	require.Len(t, records, 2)
	assert.Equal(t,
		[]string{"2024/01/09 10:00:00", "Site1", "Unit1", "1.5", "Plant", "Area"},
		records[0])
	assert.Equal(t,
		[]string{"2024/01/09 10:01:00", "Site1", "Unit1", "1.6", "Plant", "Area"},
		records[1])
}

func TestBuildSensorRecordsUnknownMetadata(t *testing.T) {
	data, template := exportFixture()

	// Column C has no hierarchy cell in the template.
	headers, records := BuildSensorRecords(data, template, SensorOptions{
		DataStartRow: 1,
		SensorCol:    2,
		AssetRow:     0,
		HierarchyRow: 1,
	})

	assert.Equal(t,
		[]string{"Timestamp", "Asset_1", "Asset_2", "Value", "Hierarchy_1"},
		headers)
	require.Len(t, records, 2)
	assert.Equal(t, "Unknown", records[0][4])
}

func TestSensorExporterExportSheet(t *testing.T) {
	dir := t.TempDir()
	data, template := exportFixture()

	exporter := NewSensorExporter(NewCSVWriter(dir, nil), config.ExportConfig{
		DataStartRow: 2,
		AssetRow:     1,
		HierarchyRow: 2,
		OutputDir:    dir,
	}, nil)

	written, err := exporter.ExportSheet("Data", data, template)
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, "sensor_1_Pump_Flow_data.csv", written[0])
	assert.Equal(t, "sensor_2_Tank_Level_data.csv", written[1])

	for _, name := range written {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}
}

func TestSensorExporterRejectsDegenerateSheets(t *testing.T) {
	exporter := NewSensorExporter(NewCSVWriter(t.TempDir(), nil), config.ExportConfig{
		DataStartRow: 2,
		AssetRow:     1,
		HierarchyRow: 2,
	}, nil)

	_, err := exporter.ExportSheet("Data", domain.Table{Columns: []string{"only"}}, domain.Table{})
	assert.Error(t, err)

	_, err = exporter.ExportSheet("Data", domain.Table{Columns: []string{"A", "B"}}, domain.Table{})
	assert.Error(t, err)
}
