package pricing

import (
	"math"

	"marigunting/internal/model"
)

// TravelFeeSchedule prices the trip of a mobile barber: a flat base fee up
// to BaseDistanceKm, then PerKm for every kilometre beyond.
type TravelFeeSchedule struct {
	BaseFee        float64 `yaml:"base_fee" validate:"gte=0"`
	BaseDistanceKm float64 `yaml:"base_distance_km" validate:"gte=0"`
	PerKm          float64 `yaml:"per_km" validate:"gte=0"`
}

// DefaultTravelFeeSchedule is 5.00 within 4 km plus 1.00 per extra km.
func DefaultTravelFeeSchedule() TravelFeeSchedule {
	return TravelFeeSchedule{BaseFee: 5.00, BaseDistanceKm: 4, PerKm: 1.00}
}

// Fee returns the travel fee for distanceKm, rounded to cents. Unknown or
// negative distances get the base fee.
func (s TravelFeeSchedule) Fee(distanceKm float64) float64 {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm <= s.BaseDistanceKm {
		return Round2(s.BaseFee)
	}
	return Round2(s.BaseFee + (distanceKm-s.BaseDistanceKm)*s.PerKm)
}

// FeeFor prices the trip for a channel; shop visits never pay travel.
func (s TravelFeeSchedule) FeeFor(channel model.Channel, distanceKm float64) float64 {
	if channel != model.ChannelAtLocation {
		return 0
	}
	return s.Fee(distanceKm)
}
