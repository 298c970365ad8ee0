package visualization

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"livewire/pkg/livewire"
)

// CostMapPlot returns a bar chart of a learned cost map: one bar per gradient
// bucket, bar height is the bucket weight.
func CostMapPlot(m livewire.CostMap, title string) (*plot.Plot, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("cost map is empty")
	}

	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	values := make(plotter.Values, len(keys))
	labels := make([]string, len(keys))
	for i, k := range keys {
		values[i] = m[k]
		labels[i] = fmt.Sprintf("%d", k)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "gradient magnitude bucket"
	p.Y.Label.Text = "weight"
	p.Y.Min = 0
	p.Y.Max = 1

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("failed to create bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 60, G: 110, B: 200, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)

	return p, nil
}

// SaveCostMapPlot renders the cost map plot to filename (.png, .svg or .pdf).
func SaveCostMapPlot(m livewire.CostMap, title, filename string) error {
	p, err := CostMapPlot(m, title)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("failed to save cost map plot: %w", err)
	}
	return nil
}
