// Package schedule decides whether a business is open from its weekly hours.
//
// Windows are half-open [start, end) in minutes since midnight. A window
// that ends at or before its start is closed: overnight hours are not
// supported.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"marigunting/internal/model"
)

// Evaluator evaluates weekly hours against a point in time.
//
// When Location is set, every evaluation first converts now into it, so a
// business can be judged on its own clock. When nil, now is used as given,
// which means the caller's local calendar.
type Evaluator struct {
	Location *time.Location
}

// New creates an evaluator bound to loc (nil for caller-local time).
func New(loc *time.Location) *Evaluator {
	return &Evaluator{Location: loc}
}

// Local converts now onto the evaluator's clock.
func (e *Evaluator) Local(now time.Time) time.Time {
	if e == nil || e.Location == nil {
		return now
	}
	return now.In(e.Location)
}

// TodayWindow returns the entry for now's weekday. ok is false when the
// weekday has no entry at all.
func (e *Evaluator) TodayWindow(hours model.WeeklyHours, now time.Time) (model.DayHours, bool) {
	return WindowOn(hours, e.Local(now).Weekday())
}

// IsOpenNow reports whether now falls inside today's window.
func (e *Evaluator) IsOpenNow(hours model.WeeklyHours, now time.Time) bool {
	t := e.Local(now)
	day, ok := WindowOn(hours, t.Weekday())
	if !ok {
		return false
	}
	start, end, ok := OpenMinutes(day)
	if !ok {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	return start <= m && m < end
}

// IsOpenNow evaluates with the caller's local time.
func IsOpenNow(hours model.WeeklyHours, now time.Time) bool {
	return (*Evaluator)(nil).IsOpenNow(hours, now)
}

// TodayWindow looks up today's entry using the caller's local time.
func TodayWindow(hours model.WeeklyHours, now time.Time) (model.DayHours, bool) {
	return (*Evaluator)(nil).TodayWindow(hours, now)
}

// NextOpening finds the first day, starting today, with a usable window that
// has not yet ended at now. daysAhead is 0 for today and at most 7, when only
// today's weekday is open and today's window is already over. ok is false
// when no weekday has a usable window.
func (e *Evaluator) NextOpening(hours model.WeeklyHours, now time.Time) (day time.Weekday, daysAhead int, window model.DayHours, ok bool) {
	t := e.Local(now)
	m := t.Hour()*60 + t.Minute()
	for i := 0; i <= 7; i++ {
		d := (t.Weekday() + time.Weekday(i)) % 7
		w, found := WindowOn(hours, d)
		if !found {
			continue
		}
		_, end, open := OpenMinutes(w)
		if !open || (i == 0 && m >= end) {
			continue
		}
		return d, i, w, true
	}
	return 0, 0, model.DayHours{}, false
}

// NextOpening looks ahead using the caller's local time.
func NextOpening(hours model.WeeklyHours, now time.Time) (time.Weekday, int, model.DayHours, bool) {
	return (*Evaluator)(nil).NextOpening(hours, now)
}

// WindowOn returns the entry for a weekday.
func WindowOn(hours model.WeeklyHours, day time.Weekday) (model.DayHours, bool) {
	if hours == nil {
		return model.DayHours{}, false
	}
	d, ok := hours[day]
	return d, ok
}

// OpenMinutes returns the usable window of a day in minutes since midnight.
// ok is false for closed days, malformed clocks and empty or inverted windows.
func OpenMinutes(d model.DayHours) (start, end int, ok bool) {
	if !d.IsOpen {
		return 0, 0, false
	}
	start, err := ParseClock(d.Start)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseClock(d.End)
	if err != nil {
		return 0, 0, false
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// OpenDays lists the weekdays, Sunday first, that have a usable window.
func OpenDays(hours model.WeeklyHours) []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if w, ok := WindowOn(hours, d); ok {
			if _, _, open := OpenMinutes(w); open {
				days = append(days, d)
			}
		}
	}
	return days
}

// ParseClock converts "HH:MM" (or "H:MM") to minutes since midnight.
// "24:00" is accepted so a window can run to the end of the day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || parts[0] == "" || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %w", err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute: %w", err)
	}

	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("time out of range: %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
