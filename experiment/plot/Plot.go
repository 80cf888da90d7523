// Package plot plots the per-episode data of experiments
package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is a named sequence of per-episode values
type Series struct {
	Name   string
	Values []float64
}

// MovingAverage returns the trailing average of values over a window of
// the argument size. The first window-1 averages are taken over all
// values seen so far.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i] = stat.Mean(values[start:i+1], nil)
	}
	return out
}

// Returns saves a line plot of each series against the episode number
// as a PNG image in filename. Each series is smoothed with a moving
// average over window episodes.
func Returns(filename, title string, window int, series ...Series) error {
	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = fmt.Sprintf("Return (moving average, %d episodes)",
		window)
	p.Add(plotter.NewGrid())

	for i, s := range series {
		smoothed := MovingAverage(s.Values, window)

		pts := make(plotter.XYs, len(smoothed))
		for j := range smoothed {
			pts[j].X = float64(j)
			pts[j].Y = smoothed[j]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("returns: could not create line plotter: %v",
				err)
		}
		line.Color = plotutil.Color(i)

		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, filename); err != nil {
		return fmt.Errorf("returns: could not save plot to file: %v", err)
	}
	return nil
}

// ReturnsChart renders an interactive HTML line chart of each series
// against the episode number to w
func ReturnsChart(w io.Writer, title string, window int,
	series ...Series) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("moving average over %d episodes", window),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	episodes := 0
	for _, s := range series {
		if len(s.Values) > episodes {
			episodes = len(s.Values)
		}
	}

	x := make([]string, episodes)
	for i := range x {
		x[i] = fmt.Sprintf("%d", i)
	}
	line = line.SetXAxis(x)

	for _, s := range series {
		smoothed := MovingAverage(s.Values, window)
		items := make([]opts.LineData, 0, len(smoothed))
		for _, v := range smoothed {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(s.Name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("returnsChart: %v", err)
	}
	return nil
}
