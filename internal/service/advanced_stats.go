package service

import (
	"math"

	"eda-backend/internal/state"
)

const miBins = 10

// AdvancedStatsCalculator measures dependencies Pearson misses.
type AdvancedStatsCalculator struct{}

// NewAdvancedStatsCalculator creates a new calculator
func NewAdvancedStatsCalculator() *AdvancedStatsCalculator {
	return &AdvancedStatsCalculator{}
}

// MutualInformation returns the normalized mutual information of two numeric
// columns of the same frame, in [0, 1]. Rows missing in either column are ignored.
// Detects both linear and non-linear relationships.
func (asc *AdvancedStatsCalculator) MutualInformation(df *state.DataFrame, col1, col2 string) float64 {
	c1, c2 := df.Column(col1), df.Column(col2)
	if c1 == nil || c2 == nil || c1.Nums == nil || c2.Nums == nil {
		return 0
	}

	var vals1, vals2 []float64
	for i := range c1.Nums {
		if math.IsNaN(c1.Nums[i]) || math.IsNaN(c2.Nums[i]) {
			continue
		}
		vals1 = append(vals1, c1.Nums[i])
		vals2 = append(vals2, c2.Nums[i])
	}
	if len(vals1) == 0 {
		return 0
	}

	bins1 := discretize(vals1, miBins)
	bins2 := discretize(vals2, miBins)

	jointCount := make(map[[2]int]int)
	count1 := make(map[int]int)
	count2 := make(map[int]int)
	for i := range bins1 {
		jointCount[[2]int{bins1[i], bins2[i]}]++
		count1[bins1[i]]++
		count2[bins2[i]]++
	}

	// Normalize once so a single bin has probability exactly 1
	n := float64(len(bins1))
	jointProb := make(map[[2]int]float64, len(jointCount))
	for key, c := range jointCount {
		jointProb[key] = float64(c) / n
	}
	prob1 := toProb(count1, n)
	prob2 := toProb(count2, n)

	mi := 0.0
	for key, pxy := range jointProb {
		px, py := prob1[key[0]], prob2[key[1]]
		if pxy > 0 && px > 0 && py > 0 {
			mi += pxy * math.Log2(pxy/(px*py))
		}
	}

	// Max MI is min(H(X), H(Y))
	maxMI := math.Min(entropy(prob1), entropy(prob2))
	if maxMI == 0 {
		return 0
	}
	return math.Min(1, mi/maxMI)
}

// discretize assigns each value to one of numBins equal-width bins.
func discretize(values []float64, numBins int) []int {
	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	binWidth := (maxVal - minVal) / float64(numBins)
	if binWidth == 0 {
		binWidth = 1
	}

	bins := make([]int, len(values))
	for i, v := range values {
		bin := int((v - minVal) / binWidth)
		if bin >= numBins {
			bin = numBins - 1
		}
		bins[i] = bin
	}
	return bins
}

func toProb(counts map[int]int, n float64) map[int]float64 {
	prob := make(map[int]float64, len(counts))
	for key, c := range counts {
		prob[key] = float64(c) / n
	}
	return prob
}

func entropy(prob map[int]float64) float64 {
	h := 0.0
	for _, p := range prob {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
