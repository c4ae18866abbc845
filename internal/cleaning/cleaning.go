// Package cleaning classifies columns as numeric or text, coerces numeric-looking
// text to numbers and fills missing values.
package cleaning

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"eda-backend/internal/state"
)

// NumericThreshold is the share of non-missing values that must parse for a
// column to be treated as numeric.
const NumericThreshold = 0.5

// Classification is the typed outcome of inspecting one column.
type Classification struct {
	Kind       state.ColumnKind `json:"kind"`
	NonMissing int              `json:"non_missing"`
	Parsed     int              `json:"parsed"`
	Ratio      float64          `json:"ratio"`
}

// ColumnReport describes what cleaning did to one column.
type ColumnReport struct {
	Name           string           `json:"name"`
	Kind           state.ColumnKind `json:"kind"`
	Classification Classification   `json:"classification"`
	Missing        int              `json:"missing"`
	Unparsed       int              `json:"unparsed"`
	FillValue      string           `json:"fill_value,omitempty"`
	Skipped        bool             `json:"skipped,omitempty"`
}

// Result is the outcome of Clean.
type Result struct {
	NumericColumns []string       `json:"numeric_columns"`
	Columns        []ColumnReport `json:"columns"`
	Warnings       []string       `json:"warnings,omitempty"`
}

// ParseNumber strips whitespace and ',' thousands separators and parses a finite float.
func ParseNumber(s string) (float64, bool) {
	v := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Classify decides whether a column is numeric. A column with no non-missing
// values has no evidence either way and is classified as text.
func Classify(c *state.Column) Classification {
	var cl Classification
	for _, v := range c.Raw {
		if state.IsMissing(v) {
			continue
		}
		cl.NonMissing++
		if _, ok := ParseNumber(v); ok {
			cl.Parsed++
		}
	}
	if cl.NonMissing == 0 {
		cl.Kind = state.KindText
		return cl
	}
	cl.Ratio = float64(cl.Parsed) / float64(cl.NonMissing)
	if cl.Ratio >= NumericThreshold {
		cl.Kind = state.KindNumeric
	} else {
		cl.Kind = state.KindText
	}
	return cl
}

// Coerce classifies every column and converts numeric ones in place.
// Values that fail to parse in a numeric column become missing.
func Coerce(df *state.DataFrame) []Classification {
	out := make([]Classification, len(df.Columns))
	for i, c := range df.Columns {
		cl := Classify(c)
		out[i] = cl
		c.Kind = cl.Kind
		if cl.Kind != state.KindNumeric {
			c.Nums = nil
			continue
		}
		c.Nums = make([]float64, len(c.Raw))
		for r, v := range c.Raw {
			if f, ok := ParseNumber(v); ok && !state.IsMissing(v) {
				c.Nums[r] = f
			} else {
				c.Nums[r] = math.NaN()
			}
		}
	}
	return out
}

// Mode returns the most frequent non-missing value. Ties go to the
// lexicographically smallest value. ok is false when the column has no values.
func Mode(values []string) (mode string, ok bool) {
	counts := make(map[string]int)
	for _, v := range values {
		if state.IsMissing(v) {
			continue
		}
		counts[strings.TrimSpace(v)]++
	}
	if len(counts) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}

// Impute fills missing values in place: numeric columns with their mean,
// text columns with their mode. Columns with nothing to average or count are
// left untouched and reported as skipped.
func Impute(df *state.DataFrame) []ColumnReport {
	reports := make([]ColumnReport, len(df.Columns))
	for i, c := range df.Columns {
		rep := ColumnReport{Name: c.Name, Kind: c.Kind}
		switch c.Kind {
		case state.KindNumeric:
			present := c.Present()
			rep.Missing = len(c.Nums) - len(present)
			if len(present) == 0 {
				rep.Skipped = true
				break
			}
			mean := stat.Mean(present, nil)
			rep.FillValue = state.FormatNumber(mean)
			for r, v := range c.Nums {
				if math.IsNaN(v) {
					c.Nums[r] = mean
					c.Raw[r] = rep.FillValue
				}
			}
		default:
			for _, v := range c.Raw {
				if state.IsMissing(v) {
					rep.Missing++
				}
			}
			mode, ok := Mode(c.Raw)
			if !ok {
				rep.Skipped = true
				break
			}
			rep.FillValue = mode
			for r, v := range c.Raw {
				if state.IsMissing(v) {
					c.Raw[r] = mode
				}
			}
		}
		reports[i] = rep
	}
	return reports
}

// Clean coerces and imputes df in place. It never fails; degenerate columns
// are recorded as warnings.
func Clean(df *state.DataFrame) Result {
	classes := Coerce(df)

	unparsed := make([]int, len(df.Columns))
	for i, c := range df.Columns {
		if c.Kind != state.KindNumeric {
			continue
		}
		for r, v := range c.Raw {
			if !state.IsMissing(v) && math.IsNaN(c.Nums[r]) {
				unparsed[i]++
			}
		}
	}

	reports := Impute(df)
	res := Result{NumericColumns: df.NumericColumns(), Columns: reports}
	for i := range reports {
		reports[i].Classification = classes[i]
		reports[i].Unparsed = unparsed[i]
		if classes[i].NonMissing == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("column %q has no values and was left empty", reports[i].Name))
		}
		if unparsed[i] > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("column %q: %d non-numeric value(s) replaced by the mean", reports[i].Name, unparsed[i]))
		}
	}
	return res
}
