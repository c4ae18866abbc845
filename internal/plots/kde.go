package plots

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// scottBandwidth is Scott's rule, n^(-1/5) times the sample standard deviation.
// It is zero when the data has no spread.
func scottBandwidth(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	sd := stat.StdDev(vals, nil)
	if sd == 0 || math.IsNaN(sd) {
		return 0
	}
	return sd * math.Pow(float64(len(vals)), -0.2)
}

// gaussianKDE evaluates the kernel density estimate at x.
func gaussianKDE(vals []float64, bw, x float64) float64 {
	norm := 1 / (bw * math.Sqrt(2*math.Pi) * float64(len(vals)))
	sum := 0.0
	for _, v := range vals {
		z := (x - v) / bw
		sum += math.Exp(-0.5 * z * z)
	}
	return sum * norm
}
