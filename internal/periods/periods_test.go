package periods

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve_Today(t *testing.T) {
	now := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

	p, err := Resolve(SelectorToday, now)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.March, 15), p.Current.Start)
	assert.Equal(t, date(2024, time.March, 16), p.Current.End, "end is start of tomorrow")
	assert.Equal(t, date(2024, time.March, 14), p.Previous.Start)
	assert.Equal(t, p.Current.Start, p.Previous.End, "no gap between previous and current")
}

func TestResolve_ThisWeekStartsMonday(t *testing.T) {
	// 2024-03-17 is a Sunday; the week began Monday 2024-03-11.
	now := time.Date(2024, time.March, 17, 9, 0, 0, 0, time.UTC)

	p, err := Resolve(SelectorThisWeek, now)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.March, 11), p.Current.Start)
	assert.Equal(t, date(2024, time.March, 18), p.Current.End)
	assert.Equal(t, date(2024, time.March, 4), p.Previous.Start)
}

func TestResolve_ThisMonthPreviousIsCalendarMonth(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	p, err := Resolve(SelectorThisMonth, now)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.March, 1), p.Current.Start)
	assert.Equal(t, date(2024, time.April, 1), p.Current.End)
	// February, not a 31-day shift.
	assert.Equal(t, date(2024, time.February, 1), p.Previous.Start)
	assert.Equal(t, date(2024, time.March, 1), p.Previous.End)
}

func TestResolve_LastMonth(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	p, err := Resolve(SelectorLastMonth, now)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.February, 1), p.Current.Start)
	assert.Equal(t, date(2024, time.March, 1), p.Current.End)
	assert.Equal(t, date(2024, time.January, 1), p.Previous.Start)
}

func TestResolve_ThisQuarter(t *testing.T) {
	now := time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)

	p, err := Resolve(SelectorThisQuarter, now)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.April, 1), p.Current.Start)
	assert.Equal(t, date(2024, time.July, 1), p.Current.End)
	assert.Equal(t, date(2024, time.January, 1), p.Previous.Start)
}

func TestResolve_ThisYear(t *testing.T) {
	now := time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)

	p, err := Resolve(SelectorThisYear, now)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.January, 1), p.Current.Start)
	assert.Equal(t, date(2025, time.January, 1), p.Current.End)
	assert.Equal(t, date(2023, time.January, 1), p.Previous.Start)
}

func TestResolve_DefaultsToThisMonth(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	p, err := Resolve("", now)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 1), p.Current.Start)
}

func TestResolve_UnknownSelector(t *testing.T) {
	_, err := Resolve("fortnight", time.Now())
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestResolveCustom(t *testing.T) {
	p, err := ResolveCustom(date(2024, time.March, 10), date(2024, time.March, 20))
	require.NoError(t, err)

	assert.Equal(t, 10*24*time.Hour, p.Current.Duration())
	assert.Equal(t, date(2024, time.February, 29), p.Previous.Start, "previous shifts back by the same length")
	assert.Equal(t, date(2024, time.March, 10), p.Previous.End)
}

func TestResolveCustom_Inverted(t *testing.T) {
	_, err := ResolveCustom(date(2024, time.March, 20), date(2024, time.March, 10))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestRange_ContainsHalfOpen(t *testing.T) {
	r := Range{Start: date(2024, time.March, 1), End: date(2024, time.April, 1)}

	assert.True(t, r.Contains(date(2024, time.March, 1)), "start is inclusive")
	assert.True(t, r.Contains(date(2024, time.March, 31)))
	assert.False(t, r.Contains(date(2024, time.April, 1)), "end is exclusive")
}

func TestRange_Key(t *testing.T) {
	r := Range{Start: date(2024, time.March, 1), End: date(2024, time.April, 1)}
	assert.Equal(t, "20240301~20240401", r.Key())
}
