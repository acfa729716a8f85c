package chart

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/returnchart/internal/models"
)

// Summary computes per-series statistics over the dataset span. Non-finite
// values are skipped; Last is the final value as recorded.
func (s *Service) Summary(ctx context.Context, raw *models.RawDataset) (*models.SeriesSummary, error) {
	series, err := s.Series(ctx, raw)
	if err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, ErrEmptySeries
	}

	return &models.SeriesSummary{
		First:       series.Dates[0],
		Last:        series.Dates[series.Len()-1],
		Points:      series.Len(),
		Account:     seriesStats(series.Account),
		GlobalIndex: seriesStats(series.GlobalIndex),
	}, nil
}

func seriesStats(values []float64) models.SeriesStats {
	st := models.SeriesStats{
		Last: models.JSONFloat(values[len(values)-1]),
		Min:  models.JSONFloat(math.NaN()),
		Max:  models.JSONFloat(math.NaN()),
		Mean: models.JSONFloat(math.NaN()),
	}
	vs := finite(values)
	st.Count = len(vs)
	if len(vs) == 0 {
		return st
	}
	st.Min = models.JSONFloat(floats.Min(vs))
	st.Max = models.JSONFloat(floats.Max(vs))
	st.Mean = models.JSONFloat(stat.Mean(vs, nil))
	return st
}
