package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/returnchart/internal/app"
	"github.com/bobmcallan/returnchart/internal/common"
	"github.com/bobmcallan/returnchart/internal/models"
	"github.com/bobmcallan/returnchart/internal/services/chart"
)

const testDataset = `{
	"2024-01-05": [1.2, 0.8],
	"2024-01-10": [0.4, 1.1],
	"2024-01-31": [1.5, 1.0],
	"2024-02-05": [-0.4, 0.3],
	"2024-02-29": [2.1, 1.7],
	"2024-03-15": [-1.8, 0.2]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "returns.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(testDataset), 0o644))

	cfg := common.NewDefaultConfig()
	cfg.Dataset.Path = dataPath
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	cfg.Server.RateLimit = 0

	a, err := app.NewAppWithConfig(cfg, common.NewSilentLogger())
	require.NoError(t, err)
	return NewServer(a)
}

func do(t *testing.T, s *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHandleHealth(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHandleVersion(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var info common.VersionInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&info))
	assert.Equal(t, common.GetVersion(), info.Version)
}

func TestHandleChart_SVGAndCache(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/api/chart", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "<svg")
	assert.Contains(t, rr.Body.String(), "January")

	url := rr.Header().Get("X-Image-URL")
	require.True(t, strings.HasPrefix(url, "/images/returns-returns-"), url)

	cached := do(t, s, http.MethodGet, url, "")
	assert.Equal(t, http.StatusOK, cached.Code)
	assert.Equal(t, rr.Body.String(), cached.Body.String())
}

func TestHandleChart_PNG(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/api/chart?format=png", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
}

func TestHandleChart_BadFormat(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/api/chart?format=gif", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleChart_MethodNotAllowed(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodPost, "/api/chart", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleChartRender(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/api/chart/render", `{"2024-04-01":[0.1,0.2],"2024-04-30":[0.3,0.1]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "April")
}

func TestHandleChartRender_InvalidDataset(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not an object", `[1,2]`},
		{"short pair", `{"2024-04-01":[0.1]}`},
		{"duplicate key", `{"2024-04-01":[0,0],"2024-04-01":[1,1]}`},
		{"out of order", `{"2024-04-02":[0,0],"2024-04-01":[1,1]}`},
		{"empty", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, "/api/chart/render", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, "invalid_dataset", resp.Code)
		})
	}
}

func TestHandleChartLayout(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/api/chart/layout", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp LayoutResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

	require.Len(t, resp.Ticks, 6)
	require.Len(t, resp.Regions, 6)
	assert.Equal(t, "2024-01-31", resp.Ticks[2].Date)
	assert.Equal(t, chart.LongTickLength, resp.Ticks[2].Y2)
	assert.Equal(t, "5", resp.Ticks[0].Label)

	require.Len(t, resp.Labels, 3)
	assert.Equal(t, []string{"January", "February", "March"},
		[]string{resp.Labels[0].Text, resp.Labels[1].Text, resp.Labels[2].Text})
	assert.Equal(t, chart.MonthLabels([]string{"January", "February", "March"}, resp.Width, chart.DefaultMonthOffset), resp.Labels)
}

func TestHandleChartSeries(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/api/chart/series", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Dates       []string  `json:"dates"`
		Account     []float64 `json:"account"`
		GlobalIndex []float64 `json:"global_index"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, []string{"2024-01-05", "2024-01-10", "2024-01-31", "2024-02-05", "2024-02-29", "2024-03-15"}, resp.Dates)
	assert.Equal(t, []float64{1.2, 0.4, 1.5, -0.4, 2.1, -1.8}, resp.Account)
	assert.Equal(t, []float64{0.8, 1.1, 1.0, 0.3, 1.7, 0.2}, resp.GlobalIndex)
}

func TestHandleChartSummary(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/api/chart/summary", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Points  int `json:"points"`
		Account struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"account"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 6, resp.Points)
	assert.Equal(t, -1.8, resp.Account.Min)
	assert.Equal(t, 2.1, resp.Account.Max)
}

func TestHandleChartTooltip(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/api/chart/tooltip?date=2024-01-05", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Date        string          `json:"date"`
		Account     float64         `json:"account"`
		GlobalIndex float64         `json:"global_index"`
		Markup      string          `json:"markup"`
		Anchor      models.Position `json:"anchor"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "2024-01-05", resp.Date)
	assert.Equal(t, 1.2, resp.Account)
	assert.Equal(t, 0.8, resp.GlobalIndex)
	assert.Contains(t, resp.Markup, "01/05/2024")
	assert.Contains(t, resp.Markup, "Your account: 1.2%")
	assert.Contains(t, resp.Markup, "Global Index: 0.8%")
	assert.Equal(t, 0, resp.Anchor.Top)
}

func TestHandleChartTooltip_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target string
		status int
	}{
		{"/api/chart/tooltip", http.StatusBadRequest},
		{"/api/chart/tooltip?date=yesterday", http.StatusBadRequest},
		{"/api/chart/tooltip?date=2024-06-01", http.StatusNotFound},
	}
	for _, tt := range tests {
		rr := do(t, s, http.MethodGet, tt.target, "")
		assert.Equal(t, tt.status, rr.Code, tt.target)
	}
}

func TestHandleShutdown_ProductionForbidden(t *testing.T) {
	s := newTestServer(t)
	s.app.Config.Environment = "production"

	rr := do(t, s, http.MethodPost, "/api/shutdown", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHandleShutdown_SignalsChannel(t *testing.T) {
	s := newTestServer(t)
	ch := make(chan struct{}, 1)
	s.SetShutdownChannel(ch)

	rr := do(t, s, http.MethodPost, "/api/shutdown", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	<-ch
}

func TestHandleConfig(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.EqualValues(t, 6, resp["dataset_entries"])
	assert.Equal(t, true, resp["cache_enabled"])
}
