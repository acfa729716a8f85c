package chart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/bobmcallan/returnchart/internal/calendar"
	"github.com/bobmcallan/returnchart/internal/common"
	"github.com/bobmcallan/returnchart/internal/interfaces"
	"github.com/bobmcallan/returnchart/internal/models"
	"github.com/bobmcallan/returnchart/internal/plot"
)

// ErrDateNotFound is returned when a tooltip is requested for a day that is
// not in the dataset.
var ErrDateNotFound = errors.New("date not in dataset")

const (
	accountSeries     = "account"
	globalIndexSeries = "globalIndex"
)

var defaultPalette = []string{"fadb85", "5793e1"}

// Service renders the returns comparison chart.
type Service struct {
	config common.ChartConfig
	logger *common.Logger

	mu    sync.Mutex
	hover *hoverState
}

// hoverState keeps the last rendered layout so tooltip anchors do not need a
// render per hover.
type hoverState struct {
	raw    *models.RawDataset
	series *models.ChartSeries
	handle *plot.Handle
}

var _ interfaces.ChartService = (*Service)(nil)

// NewService creates a chart service.
func NewService(config common.ChartConfig, logger *common.Logger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// Render adapts raw, generates the chart and decorates its axis.
func (s *Service) Render(ctx context.Context, raw *models.RawDataset, format plot.Format) (*plot.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, err := Adapt(raw)
	if err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, ErrEmptySeries
	}

	start := time.Now()
	h, err := plot.Generate(s.plotConfig(series, format))
	if err != nil {
		return nil, fmt.Errorf("render returns chart: %w", err)
	}

	s.logger.Debug().
		Int("points", series.Len()).
		Str("format", string(h.Format())).
		Int("bytes", len(h.Bytes())).
		Dur("elapsed", time.Since(start)).
		Msg("Rendered returns chart")

	return h, nil
}

// Series returns the adapted series for raw.
func (s *Service) Series(ctx context.Context, raw *models.RawDataset) (*models.ChartSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Adapt(raw)
}

// Tooltip formats the hover content and anchor for one day.
func (s *Service) Tooltip(ctx context.Context, raw *models.RawDataset, day time.Time) (*models.TooltipResponse, error) {
	hs, err := s.hoverLayout(ctx, raw)
	if err != nil {
		return nil, err
	}

	i := hs.series.IndexOf(day)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrDateNotFound, day.Format(calendar.DateFormat))
	}
	region, _ := hs.handle.Region(i)

	payload := models.TooltipPayload{
		Date:        hs.series.Dates[i],
		Account:     hs.series.Account[i],
		GlobalIndex: hs.series.GlobalIndex[i],
	}
	return &models.TooltipResponse{
		Date:        payload.Date.Format(calendar.DateFormat),
		Account:     models.JSONFloat(payload.Account),
		GlobalIndex: models.JSONFloat(payload.GlobalIndex),
		Markup:      FormatTooltip(payload.Date, payload.Account, payload.GlobalIndex),
		Anchor:      TooltipAnchor(region),
	}, nil
}

func (s *Service) hoverLayout(ctx context.Context, raw *models.RawDataset) (*hoverState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hover != nil && s.hover.raw == raw {
		return s.hover, nil
	}

	h, err := s.Render(ctx, raw, plot.SVG)
	if err != nil {
		return nil, err
	}
	series, err := Adapt(raw)
	if err != nil {
		return nil, err
	}
	s.hover = &hoverState{raw: raw, series: series, handle: h}
	return s.hover, nil
}

func (s *Service) plotConfig(series *models.ChartSeries, format plot.Format) plot.Config {
	months := s.config.Months
	if len(months) == 0 {
		months = calendar.MonthsBetween(series.Dates[0], series.Dates[series.Len()-1])
	}

	palette := s.palette()

	return plot.Config{
		Width:        s.config.Width,
		Height:       s.config.Height,
		X:            series.Dates,
		AreaBaseline: s.config.AreaBaseline,
		YMin:         s.yMin(series),
		YMax:         s.config.YMax,
		GridLines:    s.gridLines(),
		TickFormat:   DayLabel,
		ShowLegend:   s.config.ShowLegend,
		Format:       format,
		Columns: []plot.Column{
			{Name: accountSeries, Kind: plot.Area, Values: series.Account, Color: palette[0]},
			{Name: globalIndexSeries, Kind: plot.Line, Values: series.GlobalIndex, Color: palette[1]},
		},
		OnRendered: func(axis *plot.Axis) error {
			ticks := axis.Ticks()
			handles := make([]TickHandle, len(ticks))
			for i, t := range ticks {
				handles[i] = t
			}
			if err := Decorate(handles, series.Dates); err != nil {
				if !errors.Is(err, ErrTickCountMismatch) {
					return err
				}
				s.logger.Warn().Err(err).Msg("Axis tick count differs from series length")
			}
			PlaceLabels(axis, months, axis.Width(), s.config.MonthOffset)
			return nil
		},
	}
}

// yMin is the lower of the data minimum and the lowest grid line, less the
// configured padding.
func (s *Service) yMin(series *models.ChartSeries) float64 {
	low := float64(s.config.GridMin)
	values := finite(series.Account, series.GlobalIndex)
	if len(values) > 0 {
		low = math.Min(low, floats.Min(values))
	}
	return low - s.config.YPadding
}

func (s *Service) gridLines() []plot.GridLine {
	var lines []plot.GridLine
	for v := s.config.GridMin; v <= s.config.GridMax; v++ {
		lines = append(lines, plot.GridLine{Value: float64(v), Text: fmt.Sprintf("%d%%", v)})
	}
	return lines
}

func (s *Service) palette() []drawing.Color {
	hexes := s.config.Colors
	if len(hexes) < 2 {
		hexes = defaultPalette
	}
	return []drawing.Color{
		drawing.ColorFromHex(strings.TrimPrefix(hexes[0], "#")),
		drawing.ColorFromHex(strings.TrimPrefix(hexes[1], "#")),
	}
}

// finite collects the finite values of all inputs.
func finite(sets ...[]float64) []float64 {
	var out []float64
	for _, set := range sets {
		for _, v := range set {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				out = append(out, v)
			}
		}
	}
	return out
}
