package slots

import (
	"context"
	"fmt"

	"marigunting/internal/model"
	"marigunting/internal/schedule"
)

// Grid describes the half-open range [Start, End) of bookable start times.
type Grid struct {
	Start       string `yaml:"start"` // "09:00"
	End         string `yaml:"end"`   // "21:00"
	StepMinutes int    `yaml:"step_minutes"`
}

// DefaultGrid is 09:00 up to but excluding 21:00 every 30 minutes: 24 slots.
func DefaultGrid() Grid {
	return Grid{Start: "09:00", End: "21:00", StepMinutes: 30}
}

// WindowGrid builds a grid over a day's opening window. ok is false when the
// day is closed or its window is unusable.
func WindowGrid(day model.DayHours, stepMinutes int) (Grid, bool) {
	start, end, ok := schedule.OpenMinutes(day)
	if !ok {
		return Grid{}, false
	}
	return Grid{Start: schedule.FormatClock(start), End: schedule.FormatClock(end), StepMinutes: stepMinutes}, true
}

func (g Grid) bounds() (start, end, step int, err error) {
	step = g.StepMinutes
	if step <= 0 {
		step = 30
	}
	start, err = schedule.ParseClock(g.Start)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse start time: %w", err)
	}
	end, err = schedule.ParseClock(g.End)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse end time: %w", err)
	}
	if end <= start {
		return 0, 0, 0, fmt.Errorf("grid end %s must be after start %s", g.End, g.Start)
	}
	return start, end, step, nil
}

// Slots lists every start time in the grid, all marked available.
func (g Grid) Slots() ([]model.TimeSlot, error) {
	start, end, step, err := g.bounds()
	if err != nil {
		return nil, err
	}

	var slots []model.TimeSlot
	for cursor := start; cursor < end; cursor += step {
		slots = append(slots, model.TimeSlot{
			ID:        schedule.FormatClock(cursor),
			Label:     Label(cursor),
			Available: true,
		})
	}
	return slots, nil
}

// Label renders minutes since midnight as a 12-hour clock, e.g. "9:30 AM".
func Label(minutes int) string {
	hour, minute := minutes/60, minutes%60
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour > 12:
		display = hour - 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

// AvailabilityChecker is the external collaborator that knows which slots
// are already taken.
type AvailabilityChecker interface {
	IsSlotAvailable(ctx context.Context, businessID, date, slotID string) (bool, error)
}

// Generator produces the time candidates of a booking date.
type Generator struct {
	checker AvailabilityChecker
}

// NewGenerator creates a new slot generator. A nil checker leaves every slot available.
func NewGenerator(checker AvailabilityChecker) *Generator {
	return &Generator{checker: checker}
}

// GenerateSlots lists the grid for a date and asks the checker about each slot.
func (g *Generator) GenerateSlots(ctx context.Context, businessID, date string, grid Grid) ([]model.TimeSlot, error) {
	slots, err := grid.Slots()
	if err != nil {
		return nil, err
	}
	if g.checker == nil {
		return slots, nil
	}

	for i := range slots {
		available, err := g.checker.IsSlotAvailable(ctx, businessID, date, slots[i].ID)
		if err != nil {
			return nil, fmt.Errorf("check slot %s: %w", slots[i].ID, err)
		}
		slots[i].Available = available
	}
	return slots, nil
}

// GetAvailableSlots returns only available slots.
func GetAvailableSlots(slots []model.TimeSlot) []model.TimeSlot {
	var available []model.TimeSlot
	for _, s := range slots {
		if s.Available {
			available = append(available, s)
		}
	}
	return available
}

// FindSlot looks a slot up by its "HH:MM" id.
func FindSlot(slots []model.TimeSlot, id string) (model.TimeSlot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return model.TimeSlot{}, false
}

// Periods splits a day's slots the way the booking screen shows them.
type Periods struct {
	Morning   []model.TimeSlot // before 12:00
	Afternoon []model.TimeSlot // 12:00 to before 17:00
	Evening   []model.TimeSlot // 17:00 onwards
}

// Empty reports whether no slot landed in any period.
func (p Periods) Empty() bool {
	return len(p.Morning) == 0 && len(p.Afternoon) == 0 && len(p.Evening) == 0
}

// GroupByPeriod buckets slots by start hour. Slots with malformed ids are skipped.
func GroupByPeriod(slots []model.TimeSlot) Periods {
	var p Periods
	for _, s := range slots {
		m, err := schedule.ParseClock(s.ID)
		if err != nil {
			continue
		}
		switch hour := m / 60; {
		case hour < 12:
			p.Morning = append(p.Morning, s)
		case hour < 17:
			p.Afternoon = append(p.Afternoon, s)
		default:
			p.Evening = append(p.Evening, s)
		}
	}
	return p
}

// Fits checks that enough consecutive available slots start at startID to
// cover durationMinutes. Slots must be in grid order, stepMinutes apart.
func Fits(slots []model.TimeSlot, startID string, durationMinutes, stepMinutes int) bool {
	if durationMinutes <= 0 {
		return false
	}
	if stepMinutes <= 0 {
		stepMinutes = 30
	}
	count := (durationMinutes + stepMinutes - 1) / stepMinutes

	startIdx := -1
	for i, s := range slots {
		if s.ID == startID {
			startIdx = i
			break
		}
	}
	if startIdx < 0 || startIdx+count > len(slots) {
		return false
	}

	prev := -1
	for i := startIdx; i < startIdx+count; i++ {
		if !slots[i].Available {
			return false
		}
		m, err := schedule.ParseClock(slots[i].ID)
		if err != nil {
			return false
		}
		if prev >= 0 && m != prev+stepMinutes {
			return false
		}
		prev = m
	}
	return true
}
