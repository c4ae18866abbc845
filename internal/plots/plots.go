// Package plots renders distribution, spread and correlation images for numeric columns.
package plots

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"eda-backend/internal/models"
	"eda-backend/internal/state"
)

const (
	plotWidth     = 6 * vg.Inch
	plotHeight    = 4 * vg.Inch
	heatmapWidth  = 8 * vg.Inch
	heatmapHeight = 6 * vg.Inch
	maxBins       = 200
)

var (
	barColor = color.RGBA{R: 76, G: 114, B: 176, A: 160}
	kdeColor = color.RGBA{R: 31, G: 60, B: 120, A: 255}
	boxColor = color.RGBA{R: 76, G: 114, B: 176, A: 255}
)

// Generate renders, for each numeric column with data, a histogram then a box plot,
// followed by one correlation heat map when at least two columns were plotted.
func Generate(df *state.DataFrame, numeric []string) ([]models.Image, error) {
	var (
		images  []models.Image
		plotted []string
	)
	for _, name := range numeric {
		col := df.Column(name)
		if col == nil || col.Kind != state.KindNumeric {
			continue
		}
		vals := col.Present()
		if len(vals) == 0 {
			continue
		}

		hist, err := Histogram(name, vals)
		if err != nil {
			return nil, fmt.Errorf("histogram %q: %w", name, err)
		}
		box, err := BoxPlot(name, vals)
		if err != nil {
			return nil, fmt.Errorf("boxplot %q: %w", name, err)
		}
		images = append(images, hist, box)
		plotted = append(plotted, name)
	}

	if len(plotted) >= 2 {
		hm, err := Heatmap(plotted, CorrelationMatrix(df, plotted))
		if err != nil {
			return nil, fmt.Errorf("correlation heatmap: %w", err)
		}
		images = append(images, hm)
	}
	return images, nil
}

// Histogram draws a count histogram with a Gaussian KDE overlay.
func Histogram(name string, vals []float64) (models.Image, error) {
	p := plot.New()
	p.Title.Text = "Distribution of " + name
	p.X.Label.Text = name
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(plotter.Values(vals), binCount(vals))
	if err != nil {
		return models.Image{}, err
	}
	h.FillColor = barColor
	h.LineStyle.Color = color.White
	p.Add(h)

	if bw := scottBandwidth(vals); bw > 0 {
		lo, hi := floatRange(vals)
		scale := float64(len(vals)) * h.Width
		kde := plotter.NewFunction(func(x float64) float64 {
			return scale * gaussianKDE(vals, bw, x)
		})
		kde.XMin, kde.XMax = lo, hi
		kde.Samples = 200
		kde.Color = kdeColor
		kde.Width = vg.Points(1.5)
		p.Add(kde)
	}

	return encode(p, plotWidth, plotHeight, models.Image{
		Kind:    models.ImageHistogram,
		Columns: []string{name},
		Title:   p.Title.Text,
	})
}

// BoxPlot draws a horizontal box-and-whisker plot.
func BoxPlot(name string, vals []float64) (models.Image, error) {
	p := plot.New()
	p.Title.Text = "Boxplot of " + name
	p.X.Label.Text = name

	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
	if err != nil {
		return models.Image{}, err
	}
	b.Horizontal = true
	b.FillColor = boxColor
	p.Add(b)
	p.HideY()

	return encode(p, plotWidth, plotHeight, models.Image{
		Kind:    models.ImageBoxPlot,
		Columns: []string{name},
		Title:   p.Title.Text,
	})
}

// CorrelationMatrix returns pairwise Pearson coefficients for the named columns.
// Pairs involving a constant column are NaN.
func CorrelationMatrix(df *state.DataFrame, names []string) [][]float64 {
	cols := make([][]float64, len(names))
	for i, n := range names {
		cols[i] = df.Column(n).Nums
	}
	m := make([][]float64, len(names))
	for i := range names {
		m[i] = make([]float64, len(names))
		for j := range names {
			m[i][j] = stat.Correlation(cols[i], cols[j], nil)
		}
	}
	return m
}

func encode(p *plot.Plot, w, h vg.Length, img models.Image) (models.Image, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return models.Image{}, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return models.Image{}, err
	}
	img.PNG = buf.Bytes()
	return img, nil
}

// binCount follows numpy's "auto" rule: the larger of Sturges and Freedman-Diaconis.
func binCount(vals []float64) int {
	n := len(vals)
	if n < 2 {
		return 1
	}
	sturges := int(math.Ceil(math.Log2(float64(n)))) + 1

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) - stat.Quantile(0.25, stat.Empirical, sorted, nil)
	span := sorted[n-1] - sorted[0]
	bins := sturges
	if iqr > 0 && span > 0 {
		width := 2 * iqr / math.Cbrt(float64(n))
		if fd := int(math.Ceil(span / width)); fd > bins {
			bins = fd
		}
	}
	if bins > maxBins {
		bins = maxBins
	}
	return bins
}

func floatRange(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
