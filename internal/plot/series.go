package plot

import (
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

var (
	_ chart.Series = areaSeries{}
	_ chart.Series = lineSeries{}
)

// areaSeries is a time series filled towards a fixed baseline value instead
// of go-chart's zero line. NaN points break the path.
type areaSeries struct {
	chart.TimeSeries
	Baseline float64
}

// Render implements chart.Series.
func (as areaSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := as.Style.InheritFrom(defaults)
	base := clampY(canvasBox, canvasBox.Bottom-yrange.Translate(as.Baseline))

	for _, run := range finiteRuns(as.YValues) {
		pts := points(as.TimeSeries, run, canvasBox, xrange, yrange)

		style.GetFillOptions().WriteDrawingOptionsToRenderer(r)
		r.MoveTo(pts[0].x, base)
		for _, p := range pts {
			r.LineTo(p.x, p.y)
		}
		r.LineTo(pts[len(pts)-1].x, base)
		r.Close()
		r.Fill()

		strokePath(r, style, pts)
	}
}

// lineSeries is a plain stroked time series. NaN points break the path.
type lineSeries struct {
	chart.TimeSeries
}

// Render implements chart.Series.
func (ls lineSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := ls.Style.InheritFrom(defaults)
	for _, run := range finiteRuns(ls.YValues) {
		strokePath(r, style, points(ls.TimeSeries, run, canvasBox, xrange, yrange))
	}
}

type point struct{ x, y int }

// span is a half-open index range [start, end).
type span struct{ start, end int }

func points(ts chart.TimeSeries, run span, canvasBox chart.Box, xrange, yrange chart.Range) []point {
	pts := make([]point, 0, run.end-run.start)
	for i := run.start; i < run.end; i++ {
		x := canvasBox.Left + xrange.Translate(chart.TimeToFloat64(ts.XValues[i]))
		y := clampY(canvasBox, canvasBox.Bottom-yrange.Translate(ts.YValues[i]))
		pts = append(pts, point{x, y})
	}
	return pts
}

func strokePath(r chart.Renderer, style chart.Style, pts []point) {
	if len(pts) == 0 {
		return
	}
	style.GetStrokeOptions().WriteDrawingOptionsToRenderer(r)
	r.MoveTo(pts[0].x, pts[0].y)
	for _, p := range pts[1:] {
		r.LineTo(p.x, p.y)
	}
	r.Stroke()
}

// finiteRuns splits values into maximal runs of finite numbers.
func finiteRuns(values []float64) []span {
	var runs []span
	start := -1
	for i, v := range values {
		finite := !math.IsNaN(v) && !math.IsInf(v, 0)
		switch {
		case finite && start < 0:
			start = i
		case !finite && start >= 0:
			runs = append(runs, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, span{start, len(values)})
	}
	return runs
}

// clampY keeps y inside the canvas.
func clampY(canvasBox chart.Box, y int) int {
	if y < canvasBox.Top {
		return canvasBox.Top
	}
	if y > canvasBox.Bottom {
		return canvasBox.Bottom
	}
	return y
}
