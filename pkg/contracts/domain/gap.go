package domain

import (
	"time"
)

// Gap is a run of expected-but-absent timestamps between two observed
// instants. MissingCount reconstructed instants lie strictly between
// Start and End at the baseline interval.
type Gap struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	MissingCount   int       `json:"missing_count"`
	MissingMinutes float64   `json:"missing_minutes"`
}

// GapReport is the outcome of gap analysis over one sheet's timestamp
// column. Insufficient marks the degenerate case of fewer than two
// valid instants, which is distinct from a clean zero-gap result.
type GapReport struct {
	Sheet           string      `json:"sheet"`
	IntervalMinutes float64     `json:"interval_minutes,omitempty"`
	IntervalLabel   string      `json:"interval_label,omitempty"`
	Overridden      bool        `json:"overridden,omitempty"`
	Gaps            []Gap       `json:"gaps"`
	Missing         []time.Time `json:"missing"`
	Insufficient    bool        `json:"insufficient"`
}

// Clean reports whether analysis ran and found no gaps
func (r GapReport) Clean() bool {
	return !r.Insufficient && len(r.Gaps) == 0
}
