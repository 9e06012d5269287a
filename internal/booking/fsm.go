// Package booking drives the service → barber → date/time → confirm selection
// flow of a single booking session.
package booking

import (
	"errors"
	"strings"

	"marigunting/internal/schedule"
)

// Step is the current screen of the booking flow.
type Step string

const (
	StepService  Step = "service"
	StepBarber   Step = "barber"
	StepDateTime Step = "datetime"
	StepConfirm  Step = "confirm"
)

// stepExit is the pseudo step reported when Back leaves the flow.
const stepExit Step = "exit"

var (
	ErrNoServicesSelected = errors.New("no services selected")
	ErrNoBarberSelected   = errors.New("no barber selected")
	ErrNoDateSelected     = errors.New("no date selected")
	ErrNoTimeSelected     = errors.New("no time selected")
	ErrTerminalStep       = errors.New("confirm is the last step")
	ErrDraftLocked        = errors.New("draft is locked at confirm")
	ErrNotConfirmed       = errors.New("booking has not reached confirm")
	ErrUnknownService     = errors.New("service not offered by this business")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidTime        = errors.New("invalid time")
)

type transition struct {
	next Step
	prev Step
}

// FSM holds the linear transition table. An empty next or prev means the
// edge does not exist.
type FSM struct {
	transitions map[Step]transition
}

// NewFSM creates the booking transition table.
func NewFSM() *FSM {
	return &FSM{
		transitions: map[Step]transition{
			StepService:  {next: StepBarber},
			StepBarber:   {next: StepDateTime, prev: StepService},
			StepDateTime: {next: StepConfirm, prev: StepBarber},
			StepConfirm:  {prev: StepDateTime},
		},
	}
}

// Next returns the step after from.
func (f *FSM) Next(from Step) (Step, bool) {
	t, ok := f.transitions[from]
	if !ok || t.next == "" {
		return "", false
	}
	return t.next, true
}

// Prev returns the step before from. ok is false for the first step.
func (f *FSM) Prev(from Step) (Step, bool) {
	t, ok := f.transitions[from]
	if !ok || t.prev == "" {
		return "", false
	}
	return t.prev, true
}

// CanTransition checks if transition is allowed.
func (f *FSM) CanTransition(from, to Step) bool {
	t, ok := f.transitions[from]
	if !ok || to == "" {
		return false
	}
	return t.next == to || t.prev == to
}

// Guard returns the reason the draft cannot leave step, or nil.
func Guard(step Step, d Draft) error {
	switch step {
	case StepService:
		if len(d.SelectedServiceIDs) == 0 {
			return ErrNoServicesSelected
		}
	case StepBarber:
		if strings.TrimSpace(d.BarberID) == "" {
			return ErrNoBarberSelected
		}
	case StepDateTime:
		if strings.TrimSpace(d.ScheduledDate) == "" {
			return ErrNoDateSelected
		}
		if strings.TrimSpace(d.ScheduledTime) == "" {
			return ErrNoTimeSelected
		}
	case StepConfirm:
		return ErrTerminalStep
	}
	return nil
}

// order lists the steps whose guards gate the way to confirm.
var order = []Step{StepService, StepBarber, StepDateTime}

// GuardThrough checks the guards of every step up to and including step, so a
// choice cleared after leaving its step still blocks the way forward.
func GuardThrough(step Step, d Draft) error {
	for _, s := range order {
		if err := Guard(s, d); err != nil {
			return err
		}
		if s == step {
			return nil
		}
	}
	return Guard(step, d)
}

// validTime accepts canonical "HH:MM" slot ids within the day.
func validTime(slotID string) bool {
	m, err := schedule.ParseClock(slotID)
	return err == nil && len(slotID) == 5 && m < 24*60
}
