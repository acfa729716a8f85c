package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/returnchart/internal/calendar"
	"github.com/bobmcallan/returnchart/internal/models"
	"github.com/bobmcallan/returnchart/internal/plot"
)

// FormatTooltip renders the hover content for one day.
func FormatTooltip(date time.Time, account, globalIndex float64) string {
	var sb strings.Builder

	sb.WriteString("<div class=\"tooltip-custom\">\n")
	sb.WriteString("\t<div class=\"tooltip-custom-header\">\n")
	sb.WriteString(fmt.Sprintf("\t\t<div class=\"date-value\">%s</div>\n", date.Format(calendar.DisplayFormat)))
	sb.WriteString("\t\t<div class=\"returns-percent-text\"><span>% Returns</span></div>\n")
	sb.WriteString("\t</div>\n")
	sb.WriteString("\t<div class=\"tooltip-custom-body\">\n")
	sb.WriteString(fmt.Sprintf("\t\t<div class=\"account-value\">Your account: %s%%</div>\n", formatValue(account)))
	sb.WriteString(fmt.Sprintf("\t\t<div class=\"global-index-value\">Global Index: %s%%</div>\n", formatValue(globalIndex)))
	sb.WriteString("\t</div>\n")
	sb.WriteString("</div>")

	return sb.String()
}

// formatValue writes the shortest decimal that round-trips. Non-finite values
// are written verbatim.
func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TooltipAnchor positions tooltip content at the horizontal centre of the
// hovered region.
func TooltipAnchor(region plot.HoverRegion) models.Position {
	return models.Position{Top: 0, Left: region.X + region.Width/2}
}
