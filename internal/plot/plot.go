// Package plot wraps go-chart as the charting collaborator for the returns
// chart. Generate renders synchronously and hands the laid-out x axis to an
// OnRendered callback before the axis is painted, so callers can restyle
// ticks and add labels without querying the rendered output.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoSeries is returned when a config has no x values or no columns.
var ErrNoSeries = errors.New("no series to plot")

// Format is an output image format.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat parses "svg" or "png". Empty means SVG.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", SVG:
		return SVG, nil
	case PNG:
		return PNG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

// SeriesKind selects how a column is drawn.
type SeriesKind int

const (
	Line SeriesKind = iota
	Area
)

// Column is one named y series aligned with Config.X.
type Column struct {
	Name   string
	Kind   SeriesKind
	Values []float64
	Color  drawing.Color
}

// GridLine is a horizontal reference line with an optional label drawn at
// the start of the line.
type GridLine struct {
	Value float64
	Text  string
}

// Config describes one chart.
type Config struct {
	Title   string
	Width   int
	Height  int
	Padding chart.Box

	X       []time.Time
	Columns []Column

	// AreaBaseline is the value area series fill towards. Values outside the
	// y range clamp to the canvas edge.
	AreaBaseline float64

	YMin float64
	YMax float64

	GridLines []GridLine

	// TickFormat returns the label drawn under each x tick. Empty labels are
	// not drawn.
	TickFormat func(time.Time) string

	ShowLegend bool
	Format     Format

	// OnRendered is called once per render after the x axis is laid out and
	// before it is painted. An error aborts the render.
	OnRendered func(*Axis) error
}

const (
	DefaultWidth  = 900
	DefaultHeight = 400
)

// DefaultPadding leaves room below the canvas for long ticks and month labels.
var DefaultPadding = chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 70}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Padding.IsZero() {
		c.Padding = DefaultPadding
	}
	if c.Format == "" {
		c.Format = SVG
	}
	if c.TickFormat == nil {
		c.TickFormat = func(time.Time) string { return "" }
	}
	return c
}

func (c Config) validate() error {
	if len(c.X) == 0 || len(c.Columns) == 0 {
		return ErrNoSeries
	}
	for _, col := range c.Columns {
		if len(col.Values) != len(c.X) {
			return fmt.Errorf("column %q has %d values for %d x values", col.Name, len(col.Values), len(c.X))
		}
	}
	if !(c.YMax > c.YMin) {
		return fmt.Errorf("invalid y range [%g, %g]", c.YMin, c.YMax)
	}
	return nil
}

// Handle is the result of one render.
type Handle struct {
	format  Format
	data    []byte
	axis    *Axis
	regions []HoverRegion
	err     error
}

// Generate builds and renders the chart described by cfg.
func Generate(cfg Config) (*Handle, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	h := &Handle{format: cfg.Format}
	graph := h.build(cfg)

	var buf bytes.Buffer
	if err := graph.Render(cfg.Format.provider(), &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	if h.err != nil {
		return nil, h.err
	}
	h.data = buf.Bytes()
	return h, nil
}

func (h *Handle) build(cfg Config) chart.Chart {
	xMin, xMax := xBounds(cfg.X)

	xValues := make([]time.Time, len(cfg.X))
	copy(xValues, cfg.X)

	series := make([]chart.Series, 0, len(cfg.Columns))
	for _, col := range cfg.Columns {
		ts := chart.TimeSeries{
			Name:    col.Name,
			XValues: xValues,
			YValues: col.Values,
			Style: chart.Style{
				StrokeColor: col.Color,
				StrokeWidth: 2,
			},
		}
		if col.Kind == Area {
			ts.Style.FillColor = col.Color.WithAlpha(64)
			series = append(series, areaSeries{TimeSeries: ts, Baseline: cfg.AreaBaseline})
			continue
		}
		series = append(series, lineSeries{TimeSeries: ts})
	}

	graph := chart.Chart{
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
		Background: chart.Style{
			Padding: cfg.Padding,
		},
		XAxis: chart.XAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: cfg.YMin, Max: cfg.YMax},
		},
		YAxisSecondary: chart.YAxis{
			Style: chart.Style{Hidden: true},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		gridLayer(cfg.GridLines, cfg.YMin, cfg.YMax),
		h.axisLayer(cfg, xMin, xMax),
	}
	if cfg.ShowLegend {
		graph.Elements = append(graph.Elements, chart.Legend(&graph))
	}
	return graph
}

// xBounds returns the x range in go-chart's time units. A single day is
// widened to one day so the range has a non-zero delta.
func xBounds(xs []time.Time) (float64, float64) {
	first, last := xs[0], xs[len(xs)-1]
	if !last.After(first) {
		last = first.Add(24 * time.Hour)
	}
	return chart.TimeToFloat64(first), chart.TimeToFloat64(last)
}

// Format returns the output format.
func (h *Handle) Format() Format { return h.format }

// ContentType returns the MIME type of Bytes.
func (h *Handle) ContentType() string { return h.format.ContentType() }

// Bytes returns the rendered image.
func (h *Handle) Bytes() []byte { return h.data }

// WriteTo writes the rendered image to w.
func (h *Handle) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(h.data)
	return int64(n), err
}

// Axis returns the decorated x axis as painted.
func (h *Handle) Axis() *Axis { return h.axis }

// HoverRegions returns one hover region per data point, in x order.
func (h *Handle) HoverRegions() []HoverRegion { return h.regions }

// Region returns the hover region for point i.
func (h *Handle) Region(i int) (HoverRegion, bool) {
	if i < 0 || i >= len(h.regions) {
		return HoverRegion{}, false
	}
	return h.regions[i], true
}
