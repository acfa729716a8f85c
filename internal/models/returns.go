// Package models defines data structures for the returns chart
package models

import (
	"math"
	"strconv"
	"time"
)

// ReturnPair is [accountReturn, globalIndexReturn] for one day, in percent.
type ReturnPair [2]float64

// Account returns the account return.
func (p ReturnPair) Account() float64 { return p[0] }

// GlobalIndex returns the global index return.
func (p ReturnPair) GlobalIndex() float64 { return p[1] }

// RawEntry is one key/value of the raw dataset, in file order.
type RawEntry struct {
	Key    string     `json:"key"`
	Values ReturnPair `json:"values"`
}

// RawDataset is the date-keyed returns record as loaded from disk.
// Entries keep the insertion order of the source object.
type RawDataset struct {
	Entries []RawEntry `json:"entries"`
}

// Len returns the number of entries.
func (d *RawDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}

// Keys returns the date keys in order.
func (d *RawDataset) Keys() []string {
	keys := make([]string, 0, d.Len())
	for _, e := range d.Entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// ChartSeries holds the three index-aligned sequences fed to the chart.
type ChartSeries struct {
	Dates       []time.Time `json:"dates"`
	Account     []float64   `json:"account"`
	GlobalIndex []float64   `json:"global_index"`
}

// Len returns the number of points.
func (s *ChartSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Dates)
}

// IndexOf returns the index of the point on the given day, or -1.
func (s *ChartSeries) IndexOf(day time.Time) int {
	y, m, d := day.Date()
	for i, t := range s.Dates {
		ty, tm, td := t.Date()
		if ty == y && tm == m && td == d {
			return i
		}
	}
	return -1
}

// TickClass is the calendar classification of an axis tick.
type TickClass int

const (
	TickOther TickClass = iota
	TickMultipleOfFive
	TickEndOfMonth
)

func (c TickClass) String() string {
	switch c {
	case TickEndOfMonth:
		return "EndOfMonth"
	case TickMultipleOfFive:
		return "MultipleOfFive"
	default:
		return "Other"
	}
}

// MonthLabel is a month name and its horizontal anchor on the x axis.
type MonthLabel struct {
	Text string `json:"text"`
	X    int    `json:"x"`
}

// TooltipPayload is the data under the cursor for one hover.
type TooltipPayload struct {
	Date        time.Time `json:"date"`
	Account     float64   `json:"account"`
	GlobalIndex float64   `json:"global_index"`
}

// Position is a pixel anchor for tooltip content.
type Position struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

// TooltipResponse is the formatted tooltip for one hover request.
type TooltipResponse struct {
	Date        string    `json:"date"`
	Account     JSONFloat `json:"account"`
	GlobalIndex JSONFloat `json:"global_index"`
	Markup      string    `json:"markup"`
	Anchor      Position  `json:"anchor"`
}

// SeriesStats summarises one series.
type SeriesStats struct {
	Count int       `json:"count"`
	Min   JSONFloat `json:"min"`
	Max   JSONFloat `json:"max"`
	Mean  JSONFloat `json:"mean"`
	Last  JSONFloat `json:"last"`
}

// SeriesSummary summarises both series over the dataset span.
type SeriesSummary struct {
	First       time.Time   `json:"first"`
	Last        time.Time   `json:"last"`
	Points      int         `json:"points"`
	Account     SeriesStats `json:"account"`
	GlobalIndex SeriesStats `json:"global_index"`
}

// JSONFloat is a float64 that encodes NaN and infinities as null.
type JSONFloat float64

// MarshalJSON implements json.Marshaler.
func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// SeriesResponse is the JSON form of a ChartSeries.
type SeriesResponse struct {
	Dates       []string    `json:"dates"`
	Account     []JSONFloat `json:"account"`
	GlobalIndex []JSONFloat `json:"global_index"`
}

// NewSeriesResponse converts s for encoding. Dates use the ISO day format.
func NewSeriesResponse(s *ChartSeries) SeriesResponse {
	resp := SeriesResponse{
		Dates:       make([]string, s.Len()),
		Account:     make([]JSONFloat, s.Len()),
		GlobalIndex: make([]JSONFloat, s.Len()),
	}
	for i := range s.Dates {
		resp.Dates[i] = s.Dates[i].Format("2006-01-02")
		resp.Account[i] = JSONFloat(s.Account[i])
		resp.GlobalIndex[i] = JSONFloat(s.GlobalIndex[i])
	}
	return resp
}
