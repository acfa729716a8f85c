// Package chart turns the returns dataset into the account vs. global index
// comparison chart: series adaptation, tick decoration, month labels and
// tooltip content.
package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/returnchart/internal/calendar"
	"github.com/bobmcallan/returnchart/internal/models"
)

// ErrEmptySeries is returned when there is nothing to plot.
var ErrEmptySeries = errors.New("dataset has no entries")

// Adapt converts the raw record into three index-aligned sequences in key
// order. Values are copied as-is, NaN included.
func Adapt(raw *models.RawDataset) (*models.ChartSeries, error) {
	n := raw.Len()
	s := &models.ChartSeries{
		Dates:       make([]time.Time, 0, n),
		Account:     make([]float64, 0, n),
		GlobalIndex: make([]float64, 0, n),
	}
	if n == 0 {
		return s, nil
	}

	for _, e := range raw.Entries {
		day, err := calendar.Parse(e.Key)
		if err != nil {
			return nil, fmt.Errorf("adapt series: %w", err)
		}
		s.Dates = append(s.Dates, day)
		s.Account = append(s.Account, e.Values.Account())
		s.GlobalIndex = append(s.GlobalIndex, e.Values.GlobalIndex())
	}
	return s, nil
}
