package booking

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marigunting/internal/events"
	"marigunting/internal/metrics"
	"marigunting/internal/model"
	"marigunting/internal/pricing"
)

// Draft is the selection accumulated by one booking session.
type Draft struct {
	ID                 string        `json:"id"`
	BusinessID         string        `json:"businessId"`
	SelectedServiceIDs []string      `json:"selectedServiceIds"` // selection order, unique
	BarberID           string        `json:"barberId,omitempty"`
	ScheduledDate      string        `json:"scheduledDate,omitempty"` // YYYY-MM-DD
	ScheduledTime      string        `json:"scheduledTime,omitempty"` // HH:MM slot id
	Step               Step          `json:"step"`
	Channel            model.Channel `json:"channel"`
	TravelFee          float64       `json:"travelFee"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// HasService reports whether id is selected.
func (d Draft) HasService(id string) bool {
	for _, s := range d.SelectedServiceIDs {
		if s == id {
			return true
		}
	}
	return false
}

func (d Draft) clone() Draft {
	d.SelectedServiceIDs = append([]string(nil), d.SelectedServiceIDs...)
	return d
}

// Publisher receives flow events.
type Publisher interface {
	Publish(event events.Event) error
}

// Options configures a Flow. Zero Pricing means pricing.DefaultConfig.
type Options struct {
	Channel   model.Channel
	TravelFee float64
	Pricing   pricing.Config
	Publisher Publisher
	Logger    *zerolog.Logger
}

// ConfirmPayload is published when the flow reaches confirm.
type ConfirmPayload struct {
	Draft     Draft                `json:"draft"`
	Breakdown model.PriceBreakdown `json:"breakdown"`
}

// Flow is one booking session. It is safe for concurrent use, though a
// session is normally driven by a single caller.
type Flow struct {
	mu        sync.Mutex
	fsm       *FSM
	draft     Draft
	catalog   []model.Service
	pricing   pricing.Config
	publisher Publisher
	logger    *zerolog.Logger
	breakdown *model.PriceBreakdown
}

// NewFlow starts a session for business at the service step.
func NewFlow(business model.Business, opts Options) *Flow {
	if !opts.Channel.Valid() {
		opts.Channel = model.ChannelShopVisit
	}
	if opts.Pricing == (pricing.Config{}) {
		opts.Pricing = pricing.DefaultConfig()
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	travel := opts.TravelFee
	if opts.Channel != model.ChannelAtLocation {
		travel = 0
	}

	f := &Flow{
		fsm: NewFSM(),
		draft: Draft{
			ID:         uuid.NewString(),
			BusinessID: business.ID,
			Step:       StepService,
			Channel:    opts.Channel,
			TravelFee:  travel,
			CreatedAt:  time.Now(),
		},
		catalog:   append([]model.Service(nil), business.Services...),
		pricing:   opts.Pricing,
		publisher: opts.Publisher,
	}
	l := opts.Logger.With().Str("draft_id", f.draft.ID).Str("business_id", business.ID).Logger()
	f.logger = &l
	return f
}

// ID returns the draft id.
func (f *Flow) ID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.ID
}

// Step returns the current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Step
}

// Snapshot returns a copy of the draft.
func (f *Flow) Snapshot() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.clone()
}

func (f *Flow) mutable() error {
	if f.draft.Step == StepConfirm {
		return ErrDraftLocked
	}
	return nil
}

// ToggleService adds id to the selection or removes it when already selected.
func (f *Flow) ToggleService(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mutable(); err != nil {
		return err
	}
	if _, ok := f.service(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownService, id)
	}

	ids := f.draft.SelectedServiceIDs
	for i, s := range ids {
		if s == id {
			f.draft.SelectedServiceIDs = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	f.draft.SelectedServiceIDs = append(ids, id)
	return nil
}

// SelectBarber records the chosen barber. An empty id clears the choice.
func (f *Flow) SelectBarber(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mutable(); err != nil {
		return err
	}
	f.draft.BarberID = id
	return nil
}

// SelectDate records a YYYY-MM-DD date.
func (f *Flow) SelectDate(date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mutable(); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidDate, date, err)
	}
	f.draft.ScheduledDate = date
	return nil
}

// SelectTime records an HH:MM slot id.
func (f *Flow) SelectTime(slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mutable(); err != nil {
		return err
	}
	if !validTime(slotID) {
		return fmt.Errorf("%w %q", ErrInvalidTime, slotID)
	}
	f.draft.ScheduledTime = slotID
	return nil
}

// CanAdvance reports whether Forward would move on from the current step.
func (f *Flow) CanAdvance() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.guard() == nil
}

func (f *Flow) guard() error {
	if err := GuardThrough(f.draft.Step, f.draft); err != nil {
		return err
	}
	if next, ok := f.fsm.Next(f.draft.Step); ok && next == StepConfirm {
		return pricing.ValidateSelection(f.selected())
	}
	return nil
}

// Forward moves to the next step. When a guard of the current or an earlier
// step fails the step is left unchanged and the reason is returned.
// Events are published after the flow is unlocked.
func (f *Flow) Forward() error {
	f.mu.Lock()
	from := f.draft.Step
	if err := f.guard(); err != nil {
		f.mu.Unlock()
		metrics.IncRejected(err.Error())
		f.logger.Debug().Str("step", string(from)).Err(err).Msg("forward blocked")
		return err
	}
	to, ok := f.fsm.Next(from)
	if !ok {
		f.mu.Unlock()
		return ErrTerminalStep
	}

	f.draft.Step = to
	metrics.IncTransition(string(from), string(to))
	f.logger.Debug().Str("from", string(from)).Str("to", string(to)).Msg("booking step changed")

	var confirmed *ConfirmPayload
	if to == StepConfirm {
		b := pricing.ComputeBreakdown(f.selected(), f.draft.Channel, f.draft.TravelFee, f.pricing)
		f.breakdown = &b
		confirmed = &ConfirmPayload{Draft: f.draft.clone(), Breakdown: b}
	}
	id := f.draft.ID
	f.mu.Unlock()

	if confirmed != nil {
		f.publish(events.TypeConfirmReached, id, *confirmed)
	}
	return nil
}

// Back moves to the previous step. From the service step it leaves the flow
// and returns true.
func (f *Flow) Back() (exited bool) {
	f.mu.Lock()
	from := f.draft.Step
	to, ok := f.fsm.Prev(from)
	if !ok {
		d := f.draft.clone()
		f.mu.Unlock()
		metrics.IncTransition(string(from), string(stepExit))
		f.logger.Debug().Str("step", string(from)).Msg("booking flow exited")
		f.publish(events.TypeFlowExited, d.ID, d)
		return true
	}
	defer f.mu.Unlock()

	f.draft.Step = to
	f.breakdown = nil
	metrics.IncTransition(string(from), string(to))
	f.logger.Debug().Str("from", string(from)).Str("to", string(to)).Msg("booking step changed")
	return false
}

// Breakdown returns the quote computed on reaching confirm.
func (f *Flow) Breakdown() (model.PriceBreakdown, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.breakdown == nil {
		return model.PriceBreakdown{}, false
	}
	return *f.breakdown, true
}

// Checkout builds the payment payload. Only valid at confirm.
func (f *Flow) Checkout() (pricing.CheckoutParams, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.draft.Step != StepConfirm || f.breakdown == nil {
		return nil, ErrNotConfirmed
	}
	return pricing.NewCheckoutParams(*f.breakdown, f.selected(), pricing.CheckoutRequest{
		BusinessID:    f.draft.BusinessID,
		BarberID:      f.draft.BarberID,
		ScheduledDate: f.draft.ScheduledDate,
		ScheduledTime: f.draft.ScheduledTime,
	}), nil
}

func (f *Flow) service(id string) (model.Service, bool) {
	for _, s := range f.catalog {
		if s.ID == id {
			return s, true
		}
	}
	return model.Service{}, false
}

// selected resolves the selection in selection order.
func (f *Flow) selected() []model.Service {
	out := make([]model.Service, 0, len(f.draft.SelectedServiceIDs))
	for _, id := range f.draft.SelectedServiceIDs {
		if s, ok := f.service(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// publish must be called without f.mu held; handlers may call back into the flow.
func (f *Flow) publish(eventType, key string, payload any) {
	if f.publisher == nil {
		return
	}
	e, err := events.New(eventType, key, payload)
	if err != nil {
		f.logger.Error().Err(err).Str("event", eventType).Msg("build event")
		return
	}
	if err := f.publisher.Publish(e); err != nil {
		f.logger.Warn().Err(err).Str("event", eventType).Msg("event handler failed")
	}
}
