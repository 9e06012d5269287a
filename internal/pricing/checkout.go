package pricing

import (
	"strconv"
	"strings"

	"marigunting/internal/model"
)

// CheckoutRequest carries the draft fields the payment collaborator needs
// alongside the breakdown.
type CheckoutRequest struct {
	BusinessID    string
	BarberID      string
	ScheduledDate string // YYYY-MM-DD
	ScheduledTime string // HH:MM
}

// CheckoutParams is the flat string payload handed to checkout.
type CheckoutParams map[string]string

// BookingType maps a channel onto the checkout booking type.
func BookingType(c model.Channel) string {
	if c == model.ChannelAtLocation {
		return "on-demand"
	}
	return "barbershop"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', -1, 64)
}

// NewCheckoutParams builds the checkout payload. Service names are joined
// with ", " and ids with ",", both in selection order.
func NewCheckoutParams(b model.PriceBreakdown, services []model.Service, req CheckoutRequest) CheckoutParams {
	names := make([]string, len(services))
	ids := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
		ids[i] = s.ID
	}

	travel := "0"
	if b.Channel == model.ChannelAtLocation {
		travel = formatAmount(b.TravelFee)
	}
	fee := formatAmount(b.PlatformFee)

	p := CheckoutParams{
		"bookingType":          BookingType(b.Channel),
		"subtotal":             formatAmount(b.Subtotal),
		"travelCost":           travel,
		"platformFee":          fee,
		"bookingFee":           fee,
		"serviceCommission":    formatAmount(b.ServiceCommission),
		"barberServiceEarning": formatAmount(b.BarberServiceEarning),
		"amount":               formatAmount(b.Total),
		"totalDuration":        strconv.Itoa(b.TotalDurationMinutes),
		"serviceName":          strings.Join(names, ", "),
		"serviceIds":           strings.Join(ids, ","),
		"scheduledDate":        req.ScheduledDate,
		"scheduledTime":        req.ScheduledTime,
	}
	if req.BusinessID != "" {
		p["shopId"] = req.BusinessID
	}
	if req.BarberID != "" {
		p["barberId"] = req.BarberID
	}
	return p
}
