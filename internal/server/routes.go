package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/bobmcallan/returnchart/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Chart
	mux.HandleFunc("/api/chart", s.handleChart)
	mux.HandleFunc("/api/chart/render", s.handleChartRender)
	mux.HandleFunc("/api/chart/layout", s.handleChartLayout)
	mux.HandleFunc("/api/chart/series", s.handleChartSeries)
	mux.HandleFunc("/api/chart/summary", s.handleChartSummary)
	mux.HandleFunc("/api/chart/tooltip", s.handleChartTooltip)

	// Cached renders
	if s.app.ImageCache != nil {
		mux.Handle("/images/", s.app.ImageCache.Handler())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":     cfg.Environment,
		"dataset_path":    cfg.Dataset.Path,
		"dataset_strict":  cfg.Dataset.Strict,
		"dataset_entries": s.app.Dataset.Len(),
		"chart":           cfg.Chart,
		"cache_enabled":   s.app.ImageCache != nil,
		"logging_level":   cfg.Logging.Level,
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":       common.GetVersion(),
		"build":         common.GetBuild(),
		"commit":        common.GetGitCommit(),
		"uptime":        time.Since(s.app.StartupTime).Round(time.Second).String(),
		"started_at":    s.app.StartupTime,
		"goroutines":    runtime.NumGoroutine(),
		"heap_alloc_mb": float64(m.HeapAlloc) / 1024 / 1024,
		"num_gc":        m.NumGC,
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
