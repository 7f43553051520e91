package exporter

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"xlvalidator/internal/config"
	"xlvalidator/pkg/contracts/domain"
)

// exportTimestampFormat is the normalized timestamp form of the CSV
// artifact, 24-hour clock.
const exportTimestampFormat = "2006/01/02 15:04:05"

// exportTimestampLayouts are the source timestamp forms accepted when
// the cell arrived as text. Double-space variants appear in reports
// exported from some spreadsheet tools.
var exportTimestampLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"01/02/2006  03:04:05 PM",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006 03:04 PM",
	"01/02/2006  03:04 PM",
	"01/02/2006 15:04",
	"2006-01-02 15:04",
	"01/02/2006",
	"2006-01-02",
}

// SensorExporter writes one CSV per sensor column of a sheet, each row
// pairing a normalized timestamp with the sensor value and the asset
// and hierarchy parts read from the template.
type SensorExporter struct {
	writer *CSVWriter
	cfg    config.ExportConfig
	logger *slog.Logger
}

// NewSensorExporter creates a sensor exporter
func NewSensorExporter(writer *CSVWriter, cfg config.ExportConfig, logger *slog.Logger) *SensorExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SensorExporter{writer: writer, cfg: cfg, logger: logger}
}

// ExportSheet writes one CSV per sensor column (every column after the
// timestamp column) and returns the file names written. A sensor whose
// export fails is logged and skipped; remaining sensors still export.
func (e *SensorExporter) ExportSheet(sheet string, data, template domain.Table) ([]string, error) {
	if data.ColumnCount() < 2 {
		return nil, fmt.Errorf("sheet %q needs at least a timestamp column and one sensor column", sheet)
	}
	if data.RowCount() < e.cfg.DataStartRow {
		return nil, fmt.Errorf("sheet %q has no data from row %d", sheet, e.cfg.DataStartRow)
	}

	var written []string
	for col := 1; col < data.ColumnCount(); col++ {
		headers, records := BuildSensorRecords(data, template, SensorOptions{
			DataStartRow: e.cfg.DataStartRow - 1,
			SensorCol:    col,
			AssetRow:     e.cfg.AssetRow - 1,
			HierarchyRow: e.cfg.HierarchyRow - 1,
		})
		if len(records) == 0 {
			e.logger.Warn("Sensor column has no data rows",
				slog.String("sheet", sheet),
				slog.Int("column", col))
			continue
		}

		name := sensorFileName(col, data.Columns[col])
		if err := e.writer.WriteSimpleCSV(name, headers, records); err != nil {
			e.logger.Error("Failed to export sensor CSV",
				slog.String("sheet", sheet),
				slog.Int("column", col),
				slog.String("error", err.Error()))
			continue
		}
		written = append(written, name)
	}

	e.logger.Info("Sensor export complete",
		slog.String("sheet", sheet),
		slog.Int("files", len(written)))
	return written, nil
}

// SensorOptions locates one sensor's data and template metadata, all
// zero-based.
type SensorOptions struct {
	DataStartRow int
	SensorCol    int
	AssetRow     int
	HierarchyRow int
}

// BuildSensorRecords builds the header and data records for one sensor
// column. The header is Timestamp, Asset_1..n, Value, Hierarchy_1..m,
// where the asset and hierarchy parts come from the template cells at
// the sensor's column, split on commas. Unreadable template cells fall
// back to a single "Unknown" part.
func BuildSensorRecords(data, template domain.Table, opts SensorOptions) (headers []string, records [][]string) {
	assetParts := templateParts(template, opts.AssetRow, opts.SensorCol)
	hierarchyParts := templateParts(template, opts.HierarchyRow, opts.SensorCol)

	headers = []string{"Timestamp"}
	for i := range assetParts {
		headers = append(headers, fmt.Sprintf("Asset_%d", i+1))
	}
	headers = append(headers, "Value")
	for i := range hierarchyParts {
		headers = append(headers, fmt.Sprintf("Hierarchy_%d", i+1))
	}

	for row := opts.DataStartRow; row < data.RowCount(); row++ {
		record := []string{FormatTimestamp(data.CellAt(row, 0))}
		record = append(record, assetParts...)
		record = append(record, data.CellAt(row, opts.SensorCol).String())
		record = append(record, hierarchyParts...)
		records = append(records, record)
	}
	return headers, records
}

// templateParts reads a template metadata cell and splits it on commas
func templateParts(template domain.Table, row, col int) []string {
	value := template.CellAt(row, col).String()
	if value == "" || strings.EqualFold(value, "nan") || strings.EqualFold(value, "none") {
		return []string{"Unknown"}
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// FormatTimestamp normalizes a timestamp cell to yyyy/mm/dd hh:mm:ss.
// Structured date-times format directly; text is parsed against the
// accepted source layouts; numbers are treated as Excel serial dates
// (with the 1900 leap-year adjustment). Anything unrecognized passes
// through as its string form.
func FormatTimestamp(cell domain.Cell) string {
	switch cell.Kind {
	case domain.CellKindEmpty:
		return ""
	case domain.CellKindDateTime:
		return cell.Time.Format(exportTimestampFormat)
	case domain.CellKindNumber:
		// Days since 1900-01-01; minus 2 for Excel's leap-year bug.
		epoch := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
		days := cell.Number - 2
		return epoch.Add(time.Duration(days * 24 * float64(time.Hour))).Format(exportTimestampFormat)
	default:
		text := cell.String()
		for _, layout := range exportTimestampLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t.Format(exportTimestampFormat)
			}
		}
		return text
	}
}

// sensorFileName builds a filesystem-safe name for one sensor's CSV
func sensorFileName(col int, columnName string) string {
	sanitized := strings.NewReplacer(" ", "_", "/", "_", ".", "_").Replace(columnName)
	return fmt.Sprintf("sensor_%d_%s_data.csv", col, sanitized)
}
