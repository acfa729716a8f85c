package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/bobmcallan/returnchart/internal/calendar"
	"github.com/bobmcallan/returnchart/internal/dataset"
	"github.com/bobmcallan/returnchart/internal/models"
	"github.com/bobmcallan/returnchart/internal/plot"
	"github.com/bobmcallan/returnchart/internal/services/chart"
	"github.com/bobmcallan/returnchart/internal/storage"
)

// TickView is the JSON form of one decorated x axis tick.
type TickView struct {
	Date  string `json:"date"`
	X     int    `json:"x"`
	Y1    int    `json:"y1"`
	Y2    int    `json:"y2"`
	Label string `json:"label,omitempty"`
}

// LayoutResponse describes the decorated x axis of a render.
type LayoutResponse struct {
	Width   int                 `json:"width"`
	Ticks   []TickView          `json:"ticks"`
	Labels  []models.MonthLabel `json:"labels"`
	Regions []plot.HoverRegion  `json:"regions"`
}

// handleChart renders the configured dataset. GET /api/chart?format=svg|png
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	format, ok := s.requestFormat(w, r)
	if !ok {
		return
	}

	h, err := s.app.ChartService.Render(r.Context(), s.app.Dataset, format)
	if err != nil {
		s.writeChartError(w, err)
		return
	}

	if s.app.ImageCache != nil {
		name := storage.ImageName(s.app.Config.Dataset.Path, string(h.Format()), time.Now())
		if url, err := s.app.ImageCache.Put(name, h.Bytes()); err != nil {
			s.logger.Warn().Err(err).Str("name", name).Msg("Failed to cache chart image")
		} else {
			w.Header().Set("X-Image-URL", url)
		}
	}

	WriteImage(w, h.ContentType(), h.Bytes())
}

// handleChartRender renders an uploaded dataset. POST /api/chart/render?format=svg|png
func (s *Server) handleChartRender(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !LimitBody(w, r) {
		return
	}

	format, ok := s.requestFormat(w, r)
	if !ok {
		return
	}

	raw, err := dataset.Decode(r.Body, dataset.Options{Strict: true})
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_dataset")
		return
	}

	h, err := s.app.ChartService.Render(r.Context(), raw, format)
	if err != nil {
		s.writeChartError(w, err)
		return
	}

	WriteImage(w, h.ContentType(), h.Bytes())
}

// handleChartLayout returns the decorated axis of the configured chart. GET /api/chart/layout
func (s *Server) handleChartLayout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	h, err := s.app.ChartService.Render(r.Context(), s.app.Dataset, plot.SVG)
	if err != nil {
		s.writeChartError(w, err)
		return
	}

	axis := h.Axis()
	resp := LayoutResponse{
		Width:   axis.Width(),
		Ticks:   make([]TickView, 0, len(axis.Ticks())),
		Labels:  []models.MonthLabel{},
		Regions: h.HoverRegions(),
	}
	for _, t := range axis.Ticks() {
		resp.Ticks = append(resp.Ticks, TickView{
			Date:  t.Date().Format(calendar.DateFormat),
			X:     t.X,
			Y1:    t.Y1,
			Y2:    t.Y2,
			Label: t.Label,
		})
	}
	for _, txt := range axis.Texts() {
		if txt.Class == chart.MonthLabelClass {
			resp.Labels = append(resp.Labels, models.MonthLabel{Text: txt.Body, X: txt.X})
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}

// handleChartSeries returns the adapted series. GET /api/chart/series
func (s *Server) handleChartSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	series, err := s.app.ChartService.Series(r.Context(), s.app.Dataset)
	if err != nil {
		s.writeChartError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, models.NewSeriesResponse(series))
}

// handleChartSummary returns per-series statistics. GET /api/chart/summary
func (s *Server) handleChartSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.ChartService.Summary(r.Context(), s.app.Dataset)
	if err != nil {
		s.writeChartError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleChartTooltip returns hover content for one day. GET /api/chart/tooltip?date=YYYY-MM-DD
func (s *Server) handleChartTooltip(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	param := r.URL.Query().Get("date")
	if param == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "date is required", "invalid_date")
		return
	}
	day, err := calendar.Parse(param)
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_date")
		return
	}

	resp, err := s.app.ChartService.Tooltip(r.Context(), s.app.Dataset, day)
	if err != nil {
		s.writeChartError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// requestFormat reads ?format=, falling back to the configured format.
func (s *Server) requestFormat(w http.ResponseWriter, r *http.Request) (plot.Format, bool) {
	value := r.URL.Query().Get("format")
	if value == "" {
		value = s.app.Config.Chart.Format
	}
	format, err := plot.ParseFormat(value)
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_format")
		return "", false
	}
	return format, true
}

// writeChartError maps chart service errors to HTTP responses.
func (s *Server) writeChartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chart.ErrDateNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "date_not_found")
	case errors.Is(err, chart.ErrEmptySeries), errors.Is(err, dataset.ErrInvalidDataset):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_dataset")
	default:
		s.logger.Error().Err(err).Msg("Chart request failed")
		WriteError(w, http.StatusInternalServerError, "Failed to render chart")
	}
}
