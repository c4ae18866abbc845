package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"eda-backend/internal/models"
	"eda-backend/internal/state"
)

// Describe computes count, mean, spread and quartiles for each numeric column,
// in the order given.
func Describe(df *state.DataFrame, numeric []string) []models.ColumnStats {
	out := make([]models.ColumnStats, 0, len(numeric))
	for _, name := range numeric {
		col := df.Column(name)
		if col == nil {
			continue
		}
		s, ok := CalculateStats(col.Present())
		if !ok {
			continue
		}
		s.Column = name
		out = append(out, s)
	}
	return out
}

// CalculateStats computes basic stats for a slice of values.
// ok is false when there are no values.
func CalculateStats(values []float64) (s models.ColumnStats, ok bool) {
	if len(values) == 0 {
		return s, false
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Count = len(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = models.NullFloat(stat.StdDev(sorted, nil))
	}
	s.Q25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	return s, true
}

// quantile interpolates linearly between order statistics, matching pandas' describe.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
