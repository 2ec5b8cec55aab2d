package attendance

import (
	"fmt"
	"time"

	attendanceerrors "go-colaboradores/internal/attendance/errors"
)

const (
	PunctualityOnTime = "on_time"
	PunctualityLate   = "late"
)

// Window is an allowed local-time hour range [FromHour, ToHour) for a type.
type Window struct {
	FromHour int
	ToHour   int
}

// DefaultWindows are the office hours used when schedule enforcement is on.
var DefaultWindows = map[string]Window{
	TypeEntrada: {FromHour: 9, ToHour: 11},
	TypeComida:  {FromHour: 14, ToHour: 17},
	TypeSalida:  {FromHour: 18, ToHour: 23},
}

func (w Window) Contains(local time.Time) bool {
	h := local.Hour()
	return h >= w.FromHour && h < w.ToHour
}

// Calendar resolves days and punctuality in the office time zone.
type Calendar struct {
	Location  *time.Location
	LateAfter time.Duration
}

// ParseClock turns "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// DayBounds returns [start, end) of the local calendar day containing t.
func (c Calendar) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(c.loc())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc())
	return start, start.AddDate(0, 0, 1)
}

func (c Calendar) MonthBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(c.loc())
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, c.loc())
	return start, start.AddDate(0, 1, 0)
}

// DateKey is the local calendar date of t.
func (c Calendar) DateKey(t time.Time) string {
	return t.In(c.loc()).Format("2006-01-02")
}

// Punctuality classifies an entrada by its local minute: late once the minute
// is past LateAfter, so 09:10:59 is still on time for a 09:10 threshold.
func (c Calendar) Punctuality(entrada time.Time) string {
	start, _ := c.DayBounds(entrada)
	if entrada.Sub(start).Truncate(time.Minute) > c.LateAfter {
		return PunctualityLate
	}
	return PunctualityOnTime
}

// Range parses either day (YYYY-MM-DD) or month (YYYY-MM). Day wins when both
// are given; neither means the current month.
func (c Calendar) Range(day, month string, now time.Time) (time.Time, time.Time, error) {
	switch {
	case day != "":
		d, err := time.ParseInLocation("2006-01-02", day, c.loc())
		if err != nil {
			return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidRange
		}
		from, to := c.DayBounds(d)
		return from, to, nil
	case month != "":
		m, err := time.ParseInLocation("2006-01", month, c.loc())
		if err != nil {
			return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidRange
		}
		from, to := c.MonthBounds(m)
		return from, to, nil
	default:
		from, to := c.MonthBounds(now)
		return from, to, nil
	}
}

func (c Calendar) checkWindow(kind Kind, now time.Time) error {
	w, ok := DefaultWindows[kind.Type]
	if !ok {
		return nil
	}
	if !w.Contains(now.In(c.loc())) {
		return attendanceerrors.ErrOutsideSchedule.WithDetails(map[string]any{
			"type":      kind.Type,
			"from_hour": w.FromHour,
			"to_hour":   w.ToHour,
		})
	}
	return nil
}
