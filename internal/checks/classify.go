// Package checks implements the structural and content checks of the
// workbook validation engine: cell classification, sheet and cell
// comparison against a template, and row-count validation.
package checks

import (
	"strconv"
	"strings"
	"unicode"

	"xlvalidator/pkg/contracts/domain"
)

// CellClass is one tag of the cell content taxonomy
type CellClass string

const (
	ClassNumeric         CellClass = "numeric"
	ClassNull            CellClass = "null"
	ClassEmptyString     CellClass = "empty_string"
	ClassAlphabetic      CellClass = "alphabetic"
	ClassSpecialChar     CellClass = "special_char"
	ClassNonNumericOther CellClass = "non_numeric_other"
)

// numericChars is the character set a plain numeric literal may use
const numericChars = "0123456789.-"

// Classify assigns one taxonomy tag to a cell. The cascade order is
// load-bearing: it decides which issue category a malformed cell is
// reported under, so the first matching branch always wins.
func Classify(cell domain.Cell) CellClass {
	if cell.IsEmpty() {
		return ClassNull
	}
	text := cell.String()
	if text == "" {
		return ClassEmptyString
	}
	if cell.Kind == domain.CellKindNumber {
		return ClassNumeric
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return ClassNumeric
	}
	for _, r := range text {
		if unicode.IsLetter(r) {
			return ClassAlphabetic
		}
	}
	for _, r := range text {
		if !strings.ContainsRune(numericChars, r) {
			return ClassSpecialChar
		}
	}
	// Digit/dot/dash-only text that still fails to parse, e.g. "1.2.3".
	return ClassNonNumericOther
}
