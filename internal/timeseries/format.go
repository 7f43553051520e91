// Package timeseries implements format detection and temporal sequence
// analysis for timestamp columns: inferring date/time parse patterns
// and sampling intervals without being told them, validating sequence
// regularity, and reconstructing gaps in a series.
package timeseries

import (
	"time"

	"xlvalidator/pkg/contracts/domain"
)

// DateLayouts is the ordered list of date patterns format detection
// tries. The order is load-bearing: ambiguous values like "01/02/2024"
// resolve to whichever pattern is tried first, so reordering changes
// detection results.
var DateLayouts = []string{
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
	"2006.01.02",
	"2006/01/02",
	"2006-01-02",
	"01.02.2006",
	"01/02/2006",
	"01-02-2006",
}

// TimeLayouts is the ordered list of time patterns, 24-hour forms first
var TimeLayouts = []string{
	"15:04:05",
	"15:04",
	"03:04:05 PM",
	"03:04 PM",
}

// timestampLayouts covers combined date-time text for columns holding
// full timestamps in a single cell.
var timestampLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 03:04 PM",
	time.RFC3339,
}

// DetectFormat scans a column top to bottom and locks the first format
// that classifies a cell. A structured date-time cell locks the
// native-datetime sentinel immediately; a text cell locks the first
// layout that parses it. Cells that classify nothing are skipped and
// scanning continues. The zero DetectedFormat means no cell in the
// column parsed against any layout.
//
// Once a format is returned it is fixed for the column: callers
// validate every remaining cell against it rather than re-detecting.
func DetectFormat(column []domain.Cell, layouts []string) domain.DetectedFormat {
	for _, cell := range column {
		if cell.IsEmpty() {
			continue
		}
		if cell.Kind == domain.CellKindDateTime {
			return domain.DetectedFormat{Pattern: domain.FormatNativeDateTime}
		}
		text := cell.String()
		for _, layout := range layouts {
			if _, err := time.Parse(layout, text); err == nil {
				return domain.DetectedFormat{Pattern: layout}
			}
		}
	}
	return domain.DetectedFormat{}
}

// ParseDate parses text against every date layout (and, as a fallback,
// the combined timestamp layouts) in declared order.
func ParseDate(text string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseTimestamp parses a full timestamp from text, trying combined
// date-time layouts before date-only ones.
func ParseTimestamp(text string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
