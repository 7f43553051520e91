package domain

// SheetStatus classifies one sheet name in the sheet comparison table
type SheetStatus string

const (
	SheetStatusMatch   SheetStatus = "match"
	SheetStatusMissing SheetStatus = "missing"
)

// SheetComparison is one row of the sheet comparison table
type SheetComparison struct {
	Sheet      string      `json:"sheet"`
	InTemplate bool        `json:"in_template"`
	InData     bool        `json:"in_data"`
	Status     SheetStatus `json:"status"`
}

// SheetSetResult reports structural parity between the sheet-name sets
// of the template and data workbooks.
type SheetSetResult struct {
	TemplateFile string            `json:"template_file"`
	DataFile     string            `json:"data_file"`
	Missing      []string          `json:"missing"`
	Extra        []string          `json:"extra"`
	Comparison   []SheetComparison `json:"comparison"`
}

// Match reports whether the two sheet-name sets are identical
func (r SheetSetResult) Match() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// CellMismatch records one cell whose trimmed values differ between the
// template and data tables. Row and Column are zero-based; Cell is the
// spreadsheet-style reference (e.g. "B7").
type CellMismatch struct {
	Cell          string `json:"cell"`
	Row           int    `json:"row"`
	Column        int    `json:"column"`
	ColumnName    string `json:"column_name"`
	TemplateValue string `json:"template_value"`
	DataValue     string `json:"data_value"`
}

// CellComparisonResult reports the fixed-row cell comparison for one sheet
type CellComparisonResult struct {
	Sheet            string         `json:"sheet"`
	ColumnCountMatch bool           `json:"column_count_match"`
	TemplateColumns  int            `json:"template_columns"`
	DataColumns      int            `json:"data_columns"`
	CellsChecked     int            `json:"cells_checked"`
	Mismatches       []CellMismatch `json:"mismatches"`
}

// Valid reports whether the sheet passed both the column-count and the
// cell-equality checks.
func (r CellComparisonResult) Valid() bool {
	return r.ColumnCountMatch && len(r.Mismatches) == 0
}

// RowCountStatus is the outcome of the row-count check for one sheet
type RowCountStatus string

const (
	RowCountCorrect   RowCountStatus = "correct"
	RowCountIncorrect RowCountStatus = "incorrect"
	RowCountUnknown   RowCountStatus = "unknown"
	RowCountError     RowCountStatus = "error"
)

// RowCountCheck compares a sheet's actual row count against the count
// derived from the month embedded in its anchor date cell.
//
// The expected count reproduces the historical formula
// month * 60 * 24 * daysInMonth + 7, which multiplies by the month
// number rather than a constant. This looks like a defect inherited
// from the producing system; it is kept verbatim so existing report
// sheets keep validating the same way.
type RowCountCheck struct {
	Sheet        string         `json:"sheet"`
	TemplateRows int            `json:"template_rows"`
	DataRows     int            `json:"data_rows"`
	ExpectedRows int            `json:"expected_rows,omitempty"`
	MonthDays    int            `json:"month_days,omitempty"`
	Known        bool           `json:"known"`
	Status       RowCountStatus `json:"status"`
}

// FormatNativeDateTime is the sentinel pattern recorded when a column's
// first parseable value was already a structured date-time rather than
// text needing a parse pattern.
const FormatNativeDateTime = "native-datetime"

// DetectedFormat is the outcome of format detection for one column: a
// parse pattern, the native-datetime sentinel, or nothing at all.
type DetectedFormat struct {
	Pattern string `json:"pattern,omitempty"`
}

// Detected reports whether any format was established for the column
func (f DetectedFormat) Detected() bool {
	return f.Pattern != ""
}

// Native reports whether the column held structured date-time values
func (f DetectedFormat) Native() bool {
	return f.Pattern == FormatNativeDateTime
}

// IssueCategory buckets a validation finding. Categories map one-to-one
// onto the defect taxonomy of the data validation pass.
type IssueCategory string

const (
	IssueDateTime         IssueCategory = "datetime"
	IssueDateTimeFormat   IssueCategory = "datetime_format"
	IssueDateTimeSequence IssueCategory = "datetime_sequence"
	IssueNumeric          IssueCategory = "numeric"
	IssueNull             IssueCategory = "null"
	IssueSpecialChar      IssueCategory = "special_char"
	IssueAlphabetic       IssueCategory = "alphabetic"
	IssueEmptyCell        IssueCategory = "empty_cell"
)

// IssueCategories lists every category in report order
var IssueCategories = []IssueCategory{
	IssueDateTime,
	IssueDateTimeFormat,
	IssueDateTimeSequence,
	IssueNumeric,
	IssueNull,
	IssueSpecialChar,
	IssueAlphabetic,
	IssueEmptyCell,
}

// SheetReport holds the data validation outcome for a single sheet
type SheetReport struct {
	Sheet            string                     `json:"sheet"`
	Issues           map[IssueCategory][]string `json:"issues"`
	IsValid          bool                       `json:"is_valid"`
	RowsValidated    int                        `json:"rows_validated"`
	CellsValidated   int                        `json:"cells_validated"`
	ColumnsValidated []string                   `json:"columns_validated"`
	DateFormat       DetectedFormat             `json:"date_format"`
	TimeFormat       DetectedFormat             `json:"time_format"`
	Interval         string                     `json:"interval,omitempty"`
	Error            string                     `json:"error,omitempty"`
}

// NewSheetReport returns an empty, valid report for the named sheet
func NewSheetReport(sheet string) *SheetReport {
	return &SheetReport{
		Sheet:   sheet,
		Issues:  make(map[IssueCategory][]string),
		IsValid: true,
	}
}

// AddIssue records one finding under the given category and marks the
// sheet invalid.
func (r *SheetReport) AddIssue(cat IssueCategory, msg string) {
	r.Issues[cat] = append(r.Issues[cat], msg)
	r.IsValid = false
}

// IssueCount returns the total number of findings across all categories
func (r *SheetReport) IssueCount() int {
	n := 0
	for _, issues := range r.Issues {
		n += len(issues)
	}
	return n
}

// Report aggregates every check of one validation run. It is a plain
// data artifact derived solely from the two workbooks and the engine
// configuration: the same inputs always produce an identical report.
// Reporters may re-sort or filter it but the engine never mutates it
// after the run completes; run metadata (IDs, timing) belongs to the
// caller, not the report.
type Report struct {
	TemplateFile string                 `json:"template_file"`
	DataFile     string                 `json:"data_file"`
	Sheets       SheetSetResult         `json:"sheets"`
	Cells        []CellComparisonResult `json:"cells"`
	RowCounts    []RowCountCheck        `json:"row_counts"`
	Data         []*SheetReport         `json:"data"`
	Gaps         []GapReport            `json:"gaps"`
	Valid        bool                   `json:"valid"`
}
