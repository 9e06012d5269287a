package booking

import (
	"time"

	"marigunting/internal/model"
	"marigunting/internal/schedule"
)

// DateLayout is the canonical draft date key.
const DateLayout = "2006-01-02"

// DefaultDateCandidates is how many days ahead a booking can be placed.
const DefaultDateCandidates = 7

// DateOption is one selectable booking date.
type DateOption struct {
	Date       string       `json:"date"`  // YYYY-MM-DD
	Label      string       `json:"label"` // "Today", "Tomorrow", "Mon, 3 Nov"
	Weekday    time.Weekday `json:"weekday"`
	Day        int          `json:"day"`
	IsToday    bool         `json:"isToday"`
	IsTomorrow bool         `json:"isTomorrow"`
	Open       bool         `json:"open"`
}

// DateCandidates lists days consecutive dates starting with now's calendar
// day in now's location. Days the business is closed stay in the list with
// Open false; with no hours at all every day is open. days <= 0 means
// DefaultDateCandidates.
func DateCandidates(now time.Time, days int, hours model.WeeklyHours) []DateOption {
	if days <= 0 {
		days = DefaultDateCandidates
	}
	y, m, d := now.Date()

	out := make([]DateOption, 0, days)
	for i := 0; i < days; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, now.Location())
		opt := DateOption{
			Date:       day.Format(DateLayout),
			Weekday:    day.Weekday(),
			Day:        day.Day(),
			IsToday:    i == 0,
			IsTomorrow: i == 1,
			Open:       openOn(hours, day.Weekday()),
		}
		switch {
		case opt.IsToday:
			opt.Label = "Today"
		case opt.IsTomorrow:
			opt.Label = "Tomorrow"
		default:
			opt.Label = day.Format("Mon, 2 Jan")
		}
		out = append(out, opt)
	}
	return out
}

func openOn(hours model.WeeklyHours, wd time.Weekday) bool {
	if len(hours) == 0 {
		return true
	}
	day, ok := schedule.WindowOn(hours, wd)
	if !ok {
		return false
	}
	_, _, ok = schedule.OpenMinutes(day)
	return ok
}
