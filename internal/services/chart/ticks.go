package chart

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bobmcallan/returnchart/internal/calendar"
	"github.com/bobmcallan/returnchart/internal/models"
)

// Tick lengths in pixels below the axis line.
const (
	LongTickLength  = 50 // month end, spans the month label row
	ShortTickLength = 0  // multiple of five, the day label stands alone
	MinorTickStart  = 8
	MinorTickEnd    = 20
)

var (
	// ErrTickCountMismatch is returned when the axis has a different number of
	// ticks than there are dates. The overlapping ticks are still decorated.
	ErrTickCountMismatch = errors.New("tick count does not match date count")

	// ErrTickMisaligned is returned when a tick's own date differs from the
	// date at the same position.
	ErrTickMisaligned = errors.New("tick date does not match series date")
)

// TickHandle is a tick whose line can be restyled.
type TickHandle interface {
	Date() time.Time
	SetY1(int)
	SetY2(int)
}

// Classify returns the tick class for a day. Month end wins over multiple
// of five.
func Classify(day time.Time) models.TickClass {
	switch {
	case calendar.IsEndOfMonth(day):
		return models.TickEndOfMonth
	case calendar.IsMultipleOfFive(day):
		return models.TickMultipleOfFive
	default:
		return models.TickOther
	}
}

// Decorate sets each tick's length from the class of the date at the same
// position. Only min(len(ticks), len(dates)) pairs are visited.
func Decorate(ticks []TickHandle, dates []time.Time) error {
	n := min(len(ticks), len(dates))
	for i := 0; i < n; i++ {
		if td := ticks[i].Date(); !td.IsZero() && !calendar.SameDay(td, dates[i]) {
			return fmt.Errorf("%w: tick %d is %s, series has %s", ErrTickMisaligned, i,
				td.Format(calendar.DateFormat), dates[i].Format(calendar.DateFormat))
		}
		applyClass(ticks[i], Classify(dates[i]))
	}
	if len(ticks) != len(dates) {
		return fmt.Errorf("%w: %d ticks, %d dates", ErrTickCountMismatch, len(ticks), len(dates))
	}
	return nil
}

func applyClass(t TickHandle, class models.TickClass) {
	switch class {
	case models.TickEndOfMonth:
		t.SetY2(LongTickLength)
	case models.TickMultipleOfFive:
		t.SetY2(ShortTickLength)
	default:
		t.SetY1(MinorTickStart)
		t.SetY2(MinorTickEnd)
	}
}

// DayLabel is the x tick formatter: the day number on multiples of five,
// blank otherwise. Month ends carry the long tick instead of a label.
func DayLabel(day time.Time) string {
	if Classify(day) != models.TickMultipleOfFive {
		return ""
	}
	return strconv.Itoa(day.Day())
}
