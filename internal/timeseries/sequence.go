package timeseries

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"xlvalidator/internal/workbook"
	"xlvalidator/pkg/contracts/domain"
)

// sequenceTolerance is the slack allowed around the expected interval
// before a pair of consecutive timestamps counts as a sequence break.
const sequenceTolerance = time.Second

// sequenceTimeFormat renders instants in sequence-break messages
const sequenceTimeFormat = "02.01.2006 15:04:05"

// SequenceOptions configures the date/time column pair validation
type SequenceOptions struct {
	DateCol  int // zero-based date column index
	TimeCol  int // zero-based time column index
	StartRow int // zero-based first row of the data region
}

// combined pairs a parsed instant with its 1-based source row
type combined struct {
	row int
	at  time.Time
}

// ValidateDateTime validates a sheet's date and time columns: each
// column's format is detected once and locked, every row is parsed
// against the locked format, and the combined instants are checked for
// sequence regularity against the dominant interval. Findings are
// recorded on the report under the datetime, datetime_format and
// datetime_sequence categories.
func ValidateDateTime(table domain.Table, opts SequenceOptions, report *domain.SheetReport, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if table.RowCount() <= opts.StartRow ||
		opts.DateCol >= table.ColumnCount() || opts.TimeCol >= table.ColumnCount() {
		return
	}

	dateLabel := workbook.IndexToLabel(opts.DateCol)
	timeLabel := workbook.IndexToLabel(opts.TimeCol)
	report.ColumnsValidated = append(report.ColumnsValidated,
		fmt.Sprintf("Column %s: date validation & sequence check", dateLabel),
		fmt.Sprintf("Column %s: time validation & sequence check", timeLabel))

	dateCells := table.Column(opts.DateCol)[opts.StartRow:]
	timeCells := table.Column(opts.TimeCol)[opts.StartRow:]

	report.DateFormat = DetectFormat(dateCells, DateLayouts)
	report.TimeFormat = DetectFormat(timeCells, TimeLayouts)
	logDetection(logger, report.Sheet, "date", report.DateFormat)
	logDetection(logger, report.Sheet, "time", report.TimeFormat)

	var sequence []combined
	for i := range dateCells {
		rowNum := opts.StartRow + i + 1
		dateCell := dateCells[i]
		timeCell := timeCells[i]

		if dateCell.IsEmpty() {
			report.AddIssue(domain.IssueDateTime,
				fmt.Sprintf("Row %d, Column %s: Empty/Null date value", rowNum, dateLabel))
			continue
		}
		if timeCell.IsEmpty() {
			report.AddIssue(domain.IssueDateTime,
				fmt.Sprintf("Row %d, Column %s: Empty/Null time value", rowNum, timeLabel))
			continue
		}

		date, ok := parseLocked(dateCell, report.DateFormat, DateLayouts, report, rowNum, dateLabel, "Date")
		if !ok {
			continue
		}
		clock, ok := parseLocked(timeCell, report.TimeFormat, TimeLayouts, report, rowNum, timeLabel, "Time")
		if !ok {
			continue
		}

		sequence = append(sequence, combined{
			row: rowNum,
			at: time.Date(date.Year(), date.Month(), date.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC),
		})
	}
	report.RowsValidated = len(dateCells)

	if len(sequence) < 2 {
		return
	}

	deltas := make([]float64, 0, len(sequence)-1)
	for i := 0; i < len(sequence)-1; i++ {
		deltas = append(deltas, sequence[i+1].at.Sub(sequence[i].at).Seconds())
	}
	expected, _ := Mode(deltas)
	report.Interval = IntervalLabel(expected)
	logger.Info("Detected time interval",
		slog.String("sheet", report.Sheet),
		slog.String("interval", report.Interval))

	step := time.Duration(expected * float64(time.Second))
	for i := 0; i < len(sequence)-1; i++ {
		if math.Abs(deltas[i]-expected) <= sequenceTolerance.Seconds() {
			continue
		}
		expectedNext := sequence[i].at.Add(step)
		report.AddIssue(domain.IssueDateTimeSequence,
			fmt.Sprintf("Rows %d-%d: DateTime sequence broken. Expected %s, got %s",
				sequence[i].row, sequence[i+1].row,
				expectedNext.Format(sequenceTimeFormat),
				sequence[i+1].at.Format(sequenceTimeFormat)))
	}
}

// parseLocked parses one cell against the column's locked format. When
// no format was detected at all, every layout is tried as a fallback so
// isolated parseable rows still contribute to the sequence.
func parseLocked(cell domain.Cell, format domain.DetectedFormat, layouts []string,
	report *domain.SheetReport, rowNum int, label, kind string) (time.Time, bool) {

	if cell.Kind == domain.CellKindDateTime {
		return cell.Time, true
	}
	text := cell.String()

	switch {
	case format.Native():
		report.AddIssue(domain.IssueDateTimeFormat,
			fmt.Sprintf("Row %d, Column %s: %s %q is text in a native date-time column", rowNum, label, kind, text))
		return time.Time{}, false
	case format.Detected():
		t, err := time.Parse(format.Pattern, text)
		if err != nil {
			report.AddIssue(domain.IssueDateTimeFormat,
				fmt.Sprintf("Row %d, Column %s: %s %q doesn't match format %s", rowNum, label, kind, text, format.Pattern))
			return time.Time{}, false
		}
		return t, true
	default:
		for _, layout := range layouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t, true
			}
		}
		report.AddIssue(domain.IssueDateTimeFormat,
			fmt.Sprintf("Row %d, Column %s: Could not parse %s %q with any known format", rowNum, label, kind, text))
		return time.Time{}, false
	}
}

func logDetection(logger *slog.Logger, sheet, kind string, format domain.DetectedFormat) {
	if format.Detected() {
		logger.Info("Detected column format",
			slog.String("sheet", sheet),
			slog.String("column_kind", kind),
			slog.String("format", format.Pattern))
	} else {
		logger.Warn("Could not detect column format",
			slog.String("sheet", sheet),
			slog.String("column_kind", kind))
	}
}
