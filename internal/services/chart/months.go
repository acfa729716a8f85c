package chart

import (
	"github.com/bobmcallan/returnchart/internal/models"
	"github.com/bobmcallan/returnchart/internal/plot"
)

const (
	MonthLabelClass    = "month"
	MonthLabelY        = 45
	MonthLabelFontSize = 16

	// DefaultMonthOffset shifts each label left of its slot centre so the
	// start-anchored text sits roughly centred.
	DefaultMonthOffset = 50
)

// LabelSink receives month label nodes.
type LabelSink interface {
	AppendText(plot.Text)
}

// MonthLabels splits axisWidth into one equal slot per month and anchors each
// label at its slot centre minus offset.
func MonthLabels(months []string, axisWidth, offset int) []models.MonthLabel {
	if len(months) == 0 {
		return nil
	}
	slot := float64(axisWidth) / float64(len(months))
	labels := make([]models.MonthLabel, len(months))
	for i, m := range months {
		labels[i] = models.MonthLabel{
			Text: m,
			X:    int(slot/2+float64(i)*slot) - offset,
		}
	}
	return labels
}

// PlaceLabels appends one month text node per month, left to right, and
// returns the labels it placed.
func PlaceLabels(axis LabelSink, months []string, axisWidth, offset int) []models.MonthLabel {
	labels := MonthLabels(months, axisWidth, offset)
	for _, l := range labels {
		axis.AppendText(plot.Text{
			Body:     l.Text,
			Class:    MonthLabelClass,
			X:        l.X,
			Y:        MonthLabelY,
			FontSize: MonthLabelFontSize,
		})
	}
	return labels
}
