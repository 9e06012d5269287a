package pricing

import "marigunting/internal/model"

// Earnings is the provider's side of a booking.
type Earnings struct {
	Gross              float64 `json:"grossEarnings"`
	Commission         float64 `json:"commission"`
	NetServiceEarnings float64 `json:"netServiceEarnings"`
	TravelEarnings     float64 `json:"travelEarnings"`
	TotalNet           float64 `json:"totalNet"`
}

// Revenue is the platform's side of a booking.
type Revenue struct {
	Commission  float64 `json:"commission"`
	PlatformFee float64 `json:"platformFee"`
	Total       float64 `json:"totalRevenue"`
}

// PartnerEarnings splits a breakdown into what the barber takes home. The
// travel fee goes to the barber in full.
func PartnerEarnings(b model.PriceBreakdown) Earnings {
	net := toCents(b.BarberServiceEarning)
	travel := toCents(b.TravelFee)
	return Earnings{
		Gross:              Round2(b.Subtotal),
		Commission:         Round2(b.ServiceCommission),
		NetServiceEarnings: fromCents(net),
		TravelEarnings:     fromCents(travel),
		TotalNet:           fromCents(net + travel),
	}
}

// PlatformRevenue is the commission plus the flat platform fee.
func PlatformRevenue(b model.PriceBreakdown) Revenue {
	commission := toCents(b.ServiceCommission)
	fee := toCents(b.PlatformFee)
	return Revenue{
		Commission:  fromCents(commission),
		PlatformFee: fromCents(fee),
		Total:       fromCents(commission + fee),
	}
}
