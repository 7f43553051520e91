// Package workbook loads spreadsheet files into the domain workbook
// model and provides spreadsheet-style cell addressing.
package workbook

import (
	"fmt"
	"strings"
)

// ErrInvalidLabel is returned when a column label contains anything but
// ASCII letters.
var ErrInvalidLabel = fmt.Errorf("invalid column label")

// IndexToLabel converts a zero-based column index to its spreadsheet
// label: 0 -> "A", 25 -> "Z", 26 -> "AA". The encoding is bijective
// base-26: beyond the first digit there is no letter for zero, so each
// step borrows one before dividing.
func IndexToLabel(index int) string {
	if index < 0 {
		return ""
	}
	var b []byte
	for index >= 0 {
		b = append([]byte{byte('A' + index%26)}, b...)
		index = index/26 - 1
	}
	return string(b)
}

// LabelToIndex converts a spreadsheet column label back to its
// zero-based index; it is the exact inverse of IndexToLabel.
func LabelToIndex(label string) (int, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return 0, fmt.Errorf("%w: empty label", ErrInvalidLabel)
	}
	index := 0
	for _, r := range label {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
		}
		index = index*26 + int(r-'A') + 1
	}
	return index - 1, nil
}

// CellRef renders zero-based coordinates as a spreadsheet reference,
// e.g. (6, 0) -> "A7".
func CellRef(row, col int) string {
	return fmt.Sprintf("%s%d", IndexToLabel(col), row+1)
}
