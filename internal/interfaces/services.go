// Package interfaces defines service contracts for returnchart
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/returnchart/internal/models"
	"github.com/bobmcallan/returnchart/internal/plot"
)

// ChartService renders the account vs global index returns chart
type ChartService interface {
	// Render adapts the dataset and renders the decorated chart
	Render(ctx context.Context, raw *models.RawDataset, format plot.Format) (*plot.Handle, error)

	// Tooltip returns the hover content and anchor for one day
	Tooltip(ctx context.Context, raw *models.RawDataset, day time.Time) (*models.TooltipResponse, error)

	// Series returns the adapted, index-aligned series
	Series(ctx context.Context, raw *models.RawDataset) (*models.ChartSeries, error)

	// Summary returns per-series statistics over the dataset span
	Summary(ctx context.Context, raw *models.RawDataset) (*models.SeriesSummary, error)
}

// ImageCache stores rendered charts for retrieval by URL
type ImageCache interface {
	// Put stores data under name and returns its URL path
	Put(name string, data []byte) (string, error)

	// Get returns the cached bytes for name
	Get(name string) ([]byte, bool)

	// Handler serves cached images under /images/
	Handler() http.Handler
}
