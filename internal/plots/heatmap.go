package plots

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"eda-backend/internal/models"
)

// corrGrid adapts a square matrix to plotter.GridXYZ with the first column at the top.
type corrGrid struct {
	m [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.m), len(g.m) }
func (g corrGrid) Z(c, r int) float64 { return g.m[len(g.m)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// Heatmap draws an annotated correlation matrix on a diverging palette fixed at [-1, 1].
func Heatmap(names []string, m [][]float64) (models.Image, error) {
	n := len(names)
	p := plot.New()
	p.Title.Text = "Correlation Heatmap"

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m: m}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			xys = append(xys, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			if math.IsNaN(m[i][j]) {
				labels = append(labels, "nan")
			} else {
				labels = append(labels, fmt.Sprintf("%.2f", m[i][j]))
			}
		}
	}
	ann, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return models.Image{}, err
	}
	for i := range ann.TextStyle {
		ann.TextStyle[i].XAlign = draw.XCenter
		ann.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(ann)

	xt := make([]plot.Tick, n)
	yt := make([]plot.Tick, n)
	for i, name := range names {
		xt[i] = plot.Tick{Value: float64(i), Label: name}
		yt[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return encode(p, heatmapWidth, heatmapHeight, models.Image{
		Kind:    models.ImageCorrelation,
		Columns: append([]string(nil), names...),
		Title:   p.Title.Text,
	})
}
