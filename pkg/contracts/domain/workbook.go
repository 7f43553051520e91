package domain

import (
	"strconv"
	"strings"
	"time"
)

// CellKind identifies which member of the cell union is populated
type CellKind string

const (
	CellKindEmpty    CellKind = "empty"
	CellKindText     CellKind = "text"
	CellKindNumber   CellKind = "number"
	CellKindDateTime CellKind = "datetime"
)

// Cell is the closed union of values a loader can produce for a single
// spreadsheet cell. Exactly one of Text, Number or Time is meaningful,
// selected by Kind; an empty cell carries nothing.
type Cell struct {
	Kind   CellKind  `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Number float64   `json:"number,omitempty"`
	Time   time.Time `json:"time,omitempty"`
}

// EmptyCell returns the absent-value cell
func EmptyCell() Cell {
	return Cell{Kind: CellKindEmpty}
}

// TextCell returns a cell holding raw text
func TextCell(s string) Cell {
	return Cell{Kind: CellKindText, Text: s}
}

// NumberCell returns a cell holding a numeric value
func NumberCell(f float64) Cell {
	return Cell{Kind: CellKindNumber, Number: f}
}

// DateTimeCell returns a cell holding a structured date-time instant
func DateTimeCell(t time.Time) Cell {
	return Cell{Kind: CellKindDateTime, Time: t}
}

// IsEmpty reports whether the cell carries no value at all
func (c Cell) IsEmpty() bool {
	return c.Kind == CellKindEmpty
}

// String renders the cell as trimmed text, the form used for cell
// comparison and classification. Empty cells become the empty string.
func (c Cell) String() string {
	switch c.Kind {
	case CellKindText:
		return strings.TrimSpace(c.Text)
	case CellKindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellKindDateTime:
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Table holds one sheet's cells as an ordered grid. Rows are aligned to
// Columns; every row has exactly len(Columns) cells (loaders pad ragged
// rows with empty cells).
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// RowCount returns the number of data rows in the table
func (t Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns in the table
func (t Table) ColumnCount() int {
	return len(t.Columns)
}

// CellAt returns the cell at the given zero-based coordinates, or an
// empty cell when the coordinates fall outside the table.
func (t Table) CellAt(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) {
		return EmptyCell()
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return EmptyCell()
	}
	return r[col]
}

// Column returns the ordered cells of one column, top to bottom
func (t Table) Column(col int) []Cell {
	out := make([]Cell, 0, len(t.Rows))
	for i := range t.Rows {
		out = append(out, t.CellAt(i, col))
	}
	return out
}

// Workbook is a fully loaded spreadsheet file: sheet order is preserved
// from the source file, and Sheets maps each name to its table. The
// engine treats workbooks as read-only.
type Workbook struct {
	Name       string           `json:"name"`
	SheetNames []string         `json:"sheet_names"`
	Sheets     map[string]Table `json:"sheets"`
}

// HasSheet reports whether the workbook contains the named sheet
func (w *Workbook) HasSheet(name string) bool {
	_, ok := w.Sheets[name]
	return ok
}
