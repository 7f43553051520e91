package timeseries

import (
	"log/slog"
	"sort"
	"time"

	"xlvalidator/pkg/contracts/domain"
)

// gapTolerance is the factor by which a delta must exceed the baseline
// interval before it counts as a gap.
const gapTolerance = 1.1

// intervalSnapTolerance snaps a near-integer detected interval (in
// minutes) to the integer, absorbing sub-second jitter in the source.
const intervalSnapTolerance = 0.1

// IntervalUnit is the unit of a caller-supplied interval override
type IntervalUnit string

const (
	UnitMinutes IntervalUnit = "minutes"
	UnitSeconds IntervalUnit = "seconds"
	UnitHours   IntervalUnit = "hours"
)

// IntervalOverride replaces the detected baseline interval with a
// caller-supplied one. Only the baseline changes; the gap tolerance
// factor stays fixed.
type IntervalOverride struct {
	Unit  IntervalUnit `json:"unit"`
	Value int          `json:"value"`
}

// Minutes converts the override to baseline minutes
func (o IntervalOverride) Minutes() float64 {
	switch o.Unit {
	case UnitSeconds:
		return float64(o.Value) / 60
	case UnitHours:
		return float64(o.Value) * 60
	default:
		return float64(o.Value)
	}
}

// AnalyzeGaps infers the dominant sampling interval of a timestamp
// column and reconstructs the timestamps missing from it. The input
// may be unsorted; it is sorted ascending without mutating the caller's
// slice. Fewer than two instants is reported as an insufficient-data
// outcome, which is distinct from a clean zero-gap result.
//
// A consecutive pair whose delta exceeds the baseline by more than 10%
// yields one gap; gaps are independent and never merged. The merged
// sequence of observed and reconstructed timestamps has no delta beyond
// the tolerance.
func AnalyzeGaps(sheet string, instants []time.Time, override *IntervalOverride, logger *slog.Logger) domain.GapReport {
	if logger == nil {
		logger = slog.Default()
	}
	report := domain.GapReport{Sheet: sheet}

	if len(instants) < 2 {
		report.Insufficient = true
		logger.Warn("Not enough data points to analyze time intervals",
			slog.String("sheet", sheet),
			slog.Int("instants", len(instants)))
		return report
	}

	sorted := make([]time.Time, len(instants))
	copy(sorted, instants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	deltas := make([]float64, 0, len(sorted)-1)
	for i := 0; i < len(sorted)-1; i++ {
		deltas = append(deltas, sorted[i+1].Sub(sorted[i]).Minutes())
	}

	interval, _ := Mode(deltas)
	interval = roundNearInteger(interval, intervalSnapTolerance)
	if override != nil {
		interval = override.Minutes()
		report.Overridden = true
	}
	report.IntervalMinutes = interval
	report.IntervalLabel = GapIntervalLabel(interval)
	logger.Info("Detected time interval between rows",
		slog.String("sheet", sheet),
		slog.String("interval", report.IntervalLabel),
		slog.Bool("overridden", report.Overridden))

	if interval <= 0 {
		report.Insufficient = true
		return report
	}

	step := time.Duration(interval * float64(time.Minute))
	for i := 0; i < len(sorted)-1; i++ {
		delta := deltas[i]
		if delta <= interval*gapTolerance {
			continue
		}
		missing := int(delta/interval) - 1
		report.Gaps = append(report.Gaps, domain.Gap{
			Start:          sorted[i],
			End:            sorted[i+1],
			MissingCount:   missing,
			MissingMinutes: float64(missing) * interval,
		})
		for k := 1; k <= missing; k++ {
			report.Missing = append(report.Missing, sorted[i].Add(time.Duration(k)*step))
		}
	}

	if len(report.Gaps) > 0 {
		logger.Info("Found gaps in timestamp sequence",
			slog.String("sheet", sheet),
			slog.Int("gaps", len(report.Gaps)),
			slog.Int("missing", len(report.Missing)))
	}
	return report
}

// ExtractInstants pulls the parseable timestamps from a column,
// dropping empty cells and text that no layout recognizes.
func ExtractInstants(column []domain.Cell) []time.Time {
	var instants []time.Time
	for _, cell := range column {
		switch cell.Kind {
		case domain.CellKindDateTime:
			instants = append(instants, cell.Time)
		case domain.CellKindText:
			if t, ok := ParseTimestamp(cell.String()); ok {
				instants = append(instants, t)
			}
		}
	}
	return instants
}
