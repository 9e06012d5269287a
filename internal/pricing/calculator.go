// Package pricing turns a service selection into the quote handed to checkout.
//
// All arithmetic runs on integer cents. Amounts enter and leave as float64
// currency units rounded half-up to two decimals.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"marigunting/internal/metrics"
	"marigunting/internal/model"
)

// ErrNoServices is returned when a selection without services is offered for pricing.
var ErrNoServices = errors.New("no services selected")

// Config holds the marketplace fee parameters.
type Config struct {
	CommissionRate float64 `yaml:"commission_rate" validate:"gte=0,lte=1"`
	PlatformFee    float64 `yaml:"platform_fee" validate:"gte=0"`
}

// DefaultConfig is a 12% commission and a flat 2.00 platform fee.
func DefaultConfig() Config {
	return Config{CommissionRate: 0.12, PlatformFee: 2.00}
}

// Validate checks the fee parameters.
func (c Config) Validate() error {
	if math.IsNaN(c.CommissionRate) || c.CommissionRate < 0 || c.CommissionRate > 1 {
		return fmt.Errorf("commission rate %v must be within [0, 1]", c.CommissionRate)
	}
	if math.IsNaN(c.PlatformFee) || math.IsInf(c.PlatformFee, 0) || c.PlatformFee < 0 {
		return fmt.Errorf("platform fee %v must be non-negative", c.PlatformFee)
	}
	return nil
}

// toCents rounds v half-up to the minor unit. The nudge keeps values such as
// 1.005, which float64 stores as 1.00499..., on the intended side.
func toCents(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	c := v * 100
	return int64(math.Floor(c + 0.5 + 1e-7))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}

// Round2 rounds v half-up to two decimals.
func Round2(v float64) float64 {
	return fromCents(toCents(v))
}

// share takes rate of an amount in cents, rounded half-up.
func share(cents int64, rate float64) int64 {
	return toCents(fromCents(cents) * rate)
}

// ValidateSelection rejects an empty selection before it reaches ComputeBreakdown.
func ValidateSelection(services []model.Service) error {
	if len(services) == 0 {
		return ErrNoServices
	}
	return nil
}

// ComputeBreakdown prices a selection.
//
// The travel fee is charged only on the at-location channel; negative or
// non-finite fees count as zero. An empty selection yields the all-zero
// breakdown, see PriceBreakdown.IsEmpty.
func ComputeBreakdown(services []model.Service, channel model.Channel, travelFee float64, cfg Config) model.PriceBreakdown {
	if len(services) == 0 {
		return model.PriceBreakdown{Channel: channel}
	}

	var subtotal int64
	var duration int
	for _, s := range services {
		subtotal += toCents(s.Price)
		duration += s.Duration
	}

	var travel int64
	if channel == model.ChannelAtLocation && travelFee > 0 {
		travel = toCents(travelFee)
	}
	platform := toCents(cfg.PlatformFee)

	commission := share(subtotal, cfg.CommissionRate)
	earning := share(subtotal, 1-cfg.CommissionRate)

	metrics.IncQuote(string(channel))

	return model.PriceBreakdown{
		Subtotal:             fromCents(subtotal),
		TravelFee:            fromCents(travel),
		PlatformFee:          fromCents(platform),
		ServiceCommission:    fromCents(commission),
		BarberServiceEarning: fromCents(earning),
		Total:                fromCents(subtotal + travel + platform),
		TotalDurationMinutes: duration,
		Channel:              channel,
		ServiceCount:         len(services),
	}
}
