package periods

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod signals a malformed or inverted custom date range. It is
// recoverable by re-input at the boundary.
var ErrInvalidPeriod = errors.New("invalid period")

// Selector names a reporting window
type Selector string

const (
	SelectorToday       Selector = "today"
	SelectorThisWeek    Selector = "this_week"
	SelectorThisMonth   Selector = "this_month"
	SelectorLastMonth   Selector = "last_month"
	SelectorThisQuarter Selector = "this_quarter"
	SelectorThisYear    Selector = "this_year"
	SelectorCustom      Selector = "custom"
)

// DefaultSelector applies when no selector is specified
const DefaultSelector = SelectorThisMonth

// Range is a half-open [Start, End) window. The end of "today" is the start
// of tomorrow, so a date comparison never drops the current day.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Contains reports whether t falls inside the half-open range
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Key returns a stable string form used in cache keys
func (r Range) Key() string {
	return fmt.Sprintf("%s~%s", r.Start.Format("20060102"), r.End.Format("20060102"))
}

// Period pairs the current window with its previous equivalent window
type Period struct {
	Selector Selector `json:"selector"`
	Current  Range    `json:"current"`
	Previous Range    `json:"previous"`
}

// Resolve maps a named selector to its current range and the immediately
// preceding equivalent range. Calendar selectors (month, quarter, year) use
// the previous calendar unit; fixed-length selectors shift back by their own
// duration. There is never a gap or overlap between previous and current.
func Resolve(sel Selector, now time.Time) (Period, error) {
	if sel == "" {
		sel = DefaultSelector
	}

	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var current Range
	switch sel {
	case SelectorToday:
		current = Range{Start: day, End: day.AddDate(0, 0, 1)}
	case SelectorThisWeek:
		offset := (int(day.Weekday()) + 6) % 7 // Monday-based week
		start := day.AddDate(0, 0, -offset)
		current = Range{Start: start, End: start.AddDate(0, 0, 7)}
	case SelectorThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return monthlyPeriod(sel, start), nil
	case SelectorLastMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)
		return monthlyPeriod(sel, start), nil
	case SelectorThisQuarter:
		qMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		start := time.Date(now.Year(), qMonth, 1, 0, 0, 0, 0, loc)
		return Period{
			Selector: sel,
			Current:  Range{Start: start, End: start.AddDate(0, 3, 0)},
			Previous: Range{Start: start.AddDate(0, -3, 0), End: start},
		}, nil
	case SelectorThisYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		return Period{
			Selector: sel,
			Current:  Range{Start: start, End: start.AddDate(1, 0, 0)},
			Previous: Range{Start: start.AddDate(-1, 0, 0), End: start},
		}, nil
	default:
		return Period{}, fmt.Errorf("%w: unknown selector %q", ErrInvalidPeriod, sel)
	}

	length := current.Duration()
	return Period{
		Selector: sel,
		Current:  current,
		Previous: Range{Start: current.Start.Add(-length), End: current.Start},
	}, nil
}

// ResolveCustom builds a period from an explicit [start, end) range. The
// previous equivalent period is [start-(end-start), start).
func ResolveCustom(start, end time.Time) (Period, error) {
	if start.After(end) {
		return Period{}, fmt.Errorf("%w: start after end", ErrInvalidPeriod)
	}
	length := end.Sub(start)
	return Period{
		Selector: SelectorCustom,
		Current:  Range{Start: start, End: end},
		Previous: Range{Start: start.Add(-length), End: start},
	}, nil
}

func monthlyPeriod(sel Selector, monthStart time.Time) Period {
	return Period{
		Selector: sel,
		Current:  Range{Start: monthStart, End: monthStart.AddDate(0, 1, 0)},
		Previous: Range{Start: monthStart.AddDate(0, -1, 0), End: monthStart},
	}
}
