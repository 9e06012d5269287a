package model

// Channel is the booking delivery mode; it decides whether a travel fee applies.
type Channel string

const (
	ChannelShopVisit  Channel = "shop_visit"  // walk-in at the barbershop
	ChannelAtLocation Channel = "at_location" // mobile barber travels to the customer
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelShopVisit || c == ChannelAtLocation
}

// TimeSlot is a bookable start time. ID is the canonical "HH:MM".
type TimeSlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"` // "9:30 AM"
	Available bool   `json:"available"`
}

// PriceBreakdown is the final quote handed to checkout.
//
// Total == Subtotal + TravelFee + PlatformFee, and
// ServiceCommission + BarberServiceEarning == Subtotal within a cent.
type PriceBreakdown struct {
	Subtotal             float64 `json:"subtotal"`
	TravelFee            float64 `json:"travelFee"`
	PlatformFee          float64 `json:"platformFee"`
	ServiceCommission    float64 `json:"serviceCommission"`
	BarberServiceEarning float64 `json:"barberServiceEarning"`
	Total                float64 `json:"total"`
	TotalDurationMinutes int     `json:"totalDurationMinutes"`
	Channel              Channel `json:"channel"`
	ServiceCount         int     `json:"serviceCount"`
}

// IsEmpty reports the degenerate breakdown produced for an empty selection.
// Callers must not confirm a booking with it.
func (p PriceBreakdown) IsEmpty() bool {
	return p.ServiceCount == 0
}
