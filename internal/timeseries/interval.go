package timeseries

import (
	"fmt"
	"math"
)

// Mode returns the most frequent exact value in values. Ties resolve to
// the value whose first occurrence comes earliest in the input, so the
// result is deterministic for a given order. ok is false for empty
// input.
func Mode(values []float64) (mode float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	counts := make(map[float64]int, len(values))
	firstSeen := make(map[float64]int, len(values))
	for i, v := range values {
		counts[v]++
		if _, seen := firstSeen[v]; !seen {
			firstSeen[v] = i
		}
	}
	best := values[0]
	for v, n := range counts {
		if n > counts[best] || (n == counts[best] && firstSeen[v] < firstSeen[best]) {
			best = v
		}
	}
	return best, true
}

// IntervalLabel renders an interval in seconds as a human label:
// exact minute/hour/day intervals get canonical names, everything else
// is expressed in minutes or fractional hours.
func IntervalLabel(seconds float64) string {
	switch seconds {
	case 60:
		return "1 minute"
	case 3600:
		return "1 hour"
	case 86400:
		return "1 day"
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", int(minutes))
	}
	return fmt.Sprintf("%.2f hours", seconds/3600)
}

// GapIntervalLabel renders a gap-analysis baseline interval in minutes
func GapIntervalLabel(minutes float64) string {
	if minutes == 1 {
		return "1 minute"
	}
	if minutes < 1 {
		return fmt.Sprintf("%.0f seconds", minutes*60)
	}
	return fmt.Sprintf("%.0f minutes", minutes)
}

// roundNearInteger snaps a value to the nearest integer when it is
// within tolerance, leaving genuinely fractional values untouched.
func roundNearInteger(v, tolerance float64) float64 {
	if math.Abs(v-math.Round(v)) < tolerance {
		return math.Round(v)
	}
	return v
}
