package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/bobmcallan/returnchart/internal/calendar"
	"github.com/bobmcallan/returnchart/internal/models"
)

// printMarkdown renders md for the terminal, or writes it verbatim when raw.
func printMarkdown(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func percentOrDash(v models.JSONFloat) string {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "-"
	}
	return percent(f)
}

// seriesMarkdown renders one table row per day.
func seriesMarkdown(s *models.ChartSeries) string {
	var b strings.Builder
	b.WriteString("| Date | Your account | Global Index |\n")
	b.WriteString("|:-----|-------------:|-------------:|\n")
	for i, d := range s.Dates {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", d.Format(calendar.DateFormat), percent(s.Account[i]), percent(s.GlobalIndex[i]))
	}
	return b.String()
}

// summaryMarkdown renders the per-series statistics.
func summaryMarkdown(sum *models.SeriesSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Returns %s to %s\n\n", sum.First.Format(calendar.DateFormat), sum.Last.Format(calendar.DateFormat))
	fmt.Fprintf(&b, "%d days\n\n", sum.Points)
	b.WriteString("| Series | Points | Min | Max | Mean | Last |\n")
	b.WriteString("|:-------|-------:|----:|----:|-----:|-----:|\n")
	row := func(name string, st models.SeriesStats) {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n", name, st.Count,
			percentOrDash(st.Min), percentOrDash(st.Max), percentOrDash(st.Mean), percentOrDash(st.Last))
	}
	row("Your account", sum.Account)
	row("Global Index", sum.GlobalIndex)
	return b.String()
}
