package plot

import (
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// DefaultTickLength is the length of an undecorated tick in pixels.
	DefaultTickLength = 6

	tickLabelOffset   = 18
	tickLabelFontSize = 10
)

var (
	axisColor = drawing.ColorFromHex("666666")
	textColor = drawing.ColorFromHex("333333")
	gridColor = drawing.ColorFromHex("aaaaaa")
)

// Tick is one x axis tick. X is relative to the left edge of the canvas; Y1
// and Y2 are the start and end of the tick line below the axis.
type Tick struct {
	date  time.Time
	X     int
	Y1    int
	Y2    int
	Label string
}

// Date returns the day the tick marks.
func (t *Tick) Date() time.Time { return t.date }

// SetY1 sets the start offset of the tick line.
func (t *Tick) SetY1(v int) { t.Y1 = v }

// SetY2 sets the end offset of the tick line.
func (t *Tick) SetY2(v int) { t.Y2 = v }

// Text is a text node attached to the axis. X is relative to the canvas left
// edge and Y to the axis line.
type Text struct {
	Body     string
	Class    string
	X        int
	Y        int
	FontSize float64
}

// Axis is the laid-out x axis handed to Config.OnRendered.
type Axis struct {
	width int
	ticks []*Tick
	texts []*Text
}

// Width returns the axis length in pixels.
func (a *Axis) Width() int { return a.width }

// Ticks returns the ticks in x order.
func (a *Axis) Ticks() []*Tick { return a.ticks }

// Texts returns the appended text nodes in insertion order.
func (a *Axis) Texts() []*Text { return a.texts }

// AppendText adds a text node. Existing nodes and tick labels are kept.
func (a *Axis) AppendText(t Text) {
	a.texts = append(a.texts, &t)
}

// HoverRegion is the horizontal band that selects one data point. X is
// relative to the canvas left edge.
type HoverRegion struct {
	Index int `json:"index"`
	X     int `json:"x"`
	Width int `json:"width"`
}

func (h *Handle) axisLayer(cfg Config, xMin, xMax float64) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		axis := layoutAxis(cfg, canvasBox.Width(), xMin, xMax)

		xs := make([]int, len(axis.ticks))
		for i, t := range axis.ticks {
			xs[i] = t.X
		}
		h.regions = hoverRegions(xs, axis.width)

		if cfg.OnRendered != nil {
			if err := cfg.OnRendered(axis); err != nil {
				h.err = err
				return
			}
		}
		h.axis = axis
		paintAxis(r, canvasBox, axis, defaults)
	}
}

func layoutAxis(cfg Config, width int, xMin, xMax float64) *Axis {
	xr := &chart.ContinuousRange{Min: xMin, Max: xMax, Domain: width}
	axis := &Axis{width: width, ticks: make([]*Tick, 0, len(cfg.X))}
	for _, d := range cfg.X {
		axis.ticks = append(axis.ticks, &Tick{
			date:  d,
			X:     xr.Translate(chart.TimeToFloat64(d)),
			Y2:    DefaultTickLength,
			Label: cfg.TickFormat(d),
		})
	}
	return axis
}

// hoverRegions splits [0, width) into one band per x, each band reaching
// halfway to its neighbours.
func hoverRegions(xs []int, width int) []HoverRegion {
	regions := make([]HoverRegion, len(xs))
	for i, x := range xs {
		left, right := 0, width
		if i > 0 {
			left = (xs[i-1] + x) / 2
		}
		if i < len(xs)-1 {
			right = (x + xs[i+1]) / 2
		}
		regions[i] = HoverRegion{Index: i, X: left, Width: right - left}
	}
	return regions
}

func paintAxis(r chart.Renderer, canvasBox chart.Box, axis *Axis, defaults chart.Style) {
	lineStyle := chart.Style{StrokeColor: axisColor, StrokeWidth: 1}.InheritFrom(defaults)
	labelStyle := chart.Style{FontColor: textColor, FontSize: tickLabelFontSize}.InheritFrom(defaults)

	lineStyle.WriteDrawingOptionsToRenderer(r)
	r.MoveTo(canvasBox.Left, canvasBox.Bottom)
	r.LineTo(canvasBox.Right, canvasBox.Bottom)
	r.Stroke()

	for _, t := range axis.ticks {
		x := canvasBox.Left + t.X
		if t.Y1 != t.Y2 {
			lineStyle.WriteDrawingOptionsToRenderer(r)
			r.MoveTo(x, canvasBox.Bottom+t.Y1)
			r.LineTo(x, canvasBox.Bottom+t.Y2)
			r.Stroke()
		}
		if t.Label != "" {
			labelStyle.WriteTextOptionsToRenderer(r)
			tb := r.MeasureText(t.Label)
			r.Text(t.Label, x-tb.Width()/2, canvasBox.Bottom+tickLabelOffset)
		}
	}

	for _, txt := range axis.texts {
		style := chart.Style{FontColor: textColor, FontSize: txt.FontSize}.InheritFrom(defaults)
		style.WriteTextOptionsToRenderer(r)
		r.SetClassName(txt.Class)
		r.Text(txt.Body, canvasBox.Left+txt.X, canvasBox.Bottom+txt.Y)
		r.SetClassName("")
	}
}

func gridLayer(lines []GridLine, yMin, yMax float64) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		yr := &chart.ContinuousRange{Min: yMin, Max: yMax, Domain: canvasBox.Height()}
		lineStyle := chart.Style{
			StrokeColor:     gridColor,
			StrokeWidth:     1,
			StrokeDashArray: []float64{3.0, 3.0},
		}.InheritFrom(defaults)
		labelStyle := chart.Style{FontColor: axisColor, FontSize: 9}.InheritFrom(defaults)

		for _, gl := range lines {
			if gl.Value < yMin || gl.Value > yMax {
				continue
			}
			y := canvasBox.Bottom - yr.Translate(gl.Value)

			lineStyle.WriteDrawingOptionsToRenderer(r)
			r.MoveTo(canvasBox.Left, y)
			r.LineTo(canvasBox.Right, y)
			r.Stroke()

			if gl.Text != "" {
				labelStyle.WriteTextOptionsToRenderer(r)
				r.Text(gl.Text, canvasBox.Left+4, y-3)
			}
		}
	}
}
