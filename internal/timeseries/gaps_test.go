package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlvalidator/pkg/contracts/domain"
)

func minuteSeries(start time.Time, offsets ...int) []time.Time {
	out := make([]time.Time, len(offsets))
	for i, m := range offsets {
		out[i] = start.Add(time.Duration(m) * time.Minute)
	}
	return out
}

func TestAnalyzeGaps(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("regular series has no gaps", func(t *testing.T) {
		report := AnalyzeGaps("Data", minuteSeries(base, 0, 1, 2, 3), nil, nil)

		assert.False(t, report.Insufficient)
		assert.True(t, report.Clean())
		assert.Equal(t, 1.0, report.IntervalMinutes)
		assert.Equal(t, "1 minute", report.IntervalLabel)
		assert.Empty(t, report.Gaps)
		assert.Empty(t, report.Missing)
	})

	t.Run("five minute hole in a one minute series", func(t *testing.T) {
		report := AnalyzeGaps("Data", minuteSeries(base, 0, 1, 2, 7), nil, nil)

		require.Len(t, report.Gaps, 1)
		gap := report.Gaps[0]
		assert.Equal(t, base.Add(2*time.Minute), gap.Start)
		assert.Equal(t, base.Add(7*time.Minute), gap.End)
		assert.Equal(t, 4, gap.MissingCount)
		assert.Equal(t, 4.0, gap.MissingMinutes)

		require.Len(t, report.Missing, 4)
		for k, want := range minuteSeries(base, 3, 4, 5, 6) {
			assert.Equal(t, want, report.Missing[k])
		}
	})

	t.Run("two independent gaps are not merged", func(t *testing.T) {
		report := AnalyzeGaps("Data", minuteSeries(base, 0, 1, 4, 5, 8), nil, nil)

		require.Len(t, report.Gaps, 2)
		assert.Equal(t, 2, report.Gaps[0].MissingCount)
		assert.Equal(t, 2, report.Gaps[1].MissingCount)
		assert.Len(t, report.Missing, 4)
	})

	t.Run("unsorted input is sorted first", func(t *testing.T) {
		report := AnalyzeGaps("Data", minuteSeries(base, 7, 0, 2, 1), nil, nil)

		require.Len(t, report.Gaps, 1)
		assert.Equal(t, base.Add(2*time.Minute), report.Gaps[0].Start)
	})

	t.Run("override replaces the detected baseline", func(t *testing.T) {
		override := &IntervalOverride{Unit: UnitMinutes, Value: 5}
		report := AnalyzeGaps("Data", minuteSeries(base, 0, 1, 2, 7), override, nil)

		assert.True(t, report.Overridden)
		assert.Equal(t, 5.0, report.IntervalMinutes)
		assert.Equal(t, "5 minutes", report.IntervalLabel)
		assert.Empty(t, report.Gaps, "a 5 minute delta is within a 5 minute baseline")
	})

	t.Run("fewer than two instants is insufficient", func(t *testing.T) {
		report := AnalyzeGaps("Data", minuteSeries(base, 0), nil, nil)

		assert.True(t, report.Insufficient)
		assert.False(t, report.Clean())
		assert.Empty(t, report.Gaps)
	})

	t.Run("zero interval is insufficient", func(t *testing.T) {
		report := AnalyzeGaps("Data", minuteSeries(base, 0, 0, 0), nil, nil)

		assert.True(t, report.Insufficient)
	})

	t.Run("sub-second jitter snaps to the integer interval", func(t *testing.T) {
		instants := []time.Time{
			base,
			base.Add(1*time.Minute + 2*time.Second),
			base.Add(2*time.Minute + 4*time.Second),
		}
		report := AnalyzeGaps("Data", instants, nil, nil)

		assert.Equal(t, 1.0, report.IntervalMinutes)
	})
}

func TestIntervalOverrideMinutes(t *testing.T) {
	tests := []struct {
		name     string
		override IntervalOverride
		want     float64
	}{
		{name: "minutes pass through", override: IntervalOverride{Unit: UnitMinutes, Value: 5}, want: 5},
		{name: "seconds convert", override: IntervalOverride{Unit: UnitSeconds, Value: 30}, want: 0.5},
		{name: "hours convert", override: IntervalOverride{Unit: UnitHours, Value: 2}, want: 120},
		{name: "unknown unit reads as minutes", override: IntervalOverride{Unit: "", Value: 3}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.override.Minutes())
		})
	}
}

func TestExtractInstants(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	column := []domain.Cell{
		domain.DateTimeCell(at),
		domain.TextCell("01.01.2024 10:01:00"),
		domain.TextCell("not a timestamp"),
		domain.EmptyCell(),
		domain.NumberCell(42),
	}

	instants := ExtractInstants(column)
	require.Len(t, instants, 2)
	assert.Equal(t, at, instants[0])
	assert.Equal(t, time.Date(2024, 1, 1, 10, 1, 0, 0, time.UTC), instants[1])
}
