package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marigunting/internal/model"
)

func services(prices ...float64) []model.Service {
	out := make([]model.Service, len(prices))
	for i, p := range prices {
		out[i] = model.Service{ID: string(rune('a' + i)), Name: string(rune('A' + i)), Price: p, Duration: 30}
	}
	return out
}

func TestComputeBreakdownShopVisit(t *testing.T) {
	selected := []model.Service{
		{ID: "cut", Name: "Haircut", Price: 25, Duration: 30},
		{ID: "beard", Name: "Beard Trim", Price: 15, Duration: 15},
	}

	b := ComputeBreakdown(selected, model.ChannelShopVisit, 7.5, DefaultConfig())

	assert.Equal(t, 40.00, b.Subtotal)
	assert.Equal(t, 4.80, b.ServiceCommission)
	assert.Equal(t, 35.20, b.BarberServiceEarning)
	assert.Equal(t, 2.00, b.PlatformFee)
	assert.Equal(t, 0.0, b.TravelFee, "shop visits never pay travel")
	assert.Equal(t, 42.00, b.Total)
	assert.Equal(t, 45, b.TotalDurationMinutes)
	assert.Equal(t, 2, b.ServiceCount)
	assert.False(t, b.IsEmpty())
}

func TestComputeBreakdownAtLocation(t *testing.T) {
	sched := DefaultTravelFeeSchedule()

	tests := []struct {
		name       string
		price      float64
		distanceKm float64
		travel     float64
		total      float64
	}{
		{"within base distance", 30, 3, 5.00, 37.00},
		{"beyond base distance", 80, 8, 9.00, 91.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := sched.FeeFor(model.ChannelAtLocation, tt.distanceKm)
			b := ComputeBreakdown(services(tt.price), model.ChannelAtLocation, fee, DefaultConfig())
			assert.Equal(t, tt.travel, b.TravelFee)
			assert.Equal(t, tt.total, b.Total)
		})
	}
}

func TestComputeBreakdownEmpty(t *testing.T) {
	b := ComputeBreakdown(nil, model.ChannelShopVisit, 0, DefaultConfig())
	assert.True(t, b.IsEmpty())
	assert.Zero(t, b.Total)
	assert.Zero(t, b.PlatformFee)
	assert.ErrorIs(t, ValidateSelection(nil), ErrNoServices)
	assert.NoError(t, ValidateSelection(services(10)))
}

func TestComputeBreakdownIgnoresBadTravelFee(t *testing.T) {
	for _, fee := range []float64{-3, math.NaN(), math.Inf(1)} {
		b := ComputeBreakdown(services(10), model.ChannelAtLocation, fee, DefaultConfig())
		assert.Zero(t, b.TravelFee)
		assert.Equal(t, 12.00, b.Total)
	}
}

func TestBreakdownInvariants(t *testing.T) {
	cfg := DefaultConfig()
	for _, prices := range [][]float64{
		{25, 15},
		{19.99},
		{12.34, 56.78, 0.01},
		{33.33, 33.33, 33.34},
		{0.05},
	} {
		for _, ch := range []model.Channel{model.ChannelShopVisit, model.ChannelAtLocation} {
			b := ComputeBreakdown(services(prices...), ch, 6.25, cfg)
			assert.InDelta(t, b.Subtotal+b.TravelFee+b.PlatformFee, b.Total, 1e-9)
			assert.InDelta(t, b.Subtotal, b.ServiceCommission+b.BarberServiceEarning, 0.01+1e-9)
		}
	}
}

func TestRound2HalfUp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{4.8, 4.8},
		{0.125, 0.13},
		{0.124, 0.12},
		{10, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestTravelFeeSchedule(t *testing.T) {
	s := DefaultTravelFeeSchedule()
	tests := []struct {
		km, fee float64
	}{
		{0, 5}, {2, 5}, {4, 5}, {5, 6}, {6, 7}, {8, 9}, {10, 11}, {4.5, 5.5}, {-1, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fee, s.Fee(tt.km), "Fee(%v)", tt.km)
	}
	assert.Equal(t, 5.0, s.Fee(math.NaN()))
	assert.Zero(t, s.FeeFor(model.ChannelShopVisit, 12))
}

func TestEarningsConservation(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		channel    model.Channel
		distanceKm float64
		totalNet   float64
		revenue    float64
	}{
		{"mobile near", 30, model.ChannelAtLocation, 3, 31.40, 5.60},
		{"mobile far", 80, model.ChannelAtLocation, 8, 79.40, 11.60},
		{"barbershop", 50, model.ChannelShopVisit, 0, 44.00, 8.00},
	}

	sched := DefaultTravelFeeSchedule()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := sched.FeeFor(tt.channel, tt.distanceKm)
			b := ComputeBreakdown(services(tt.price), tt.channel, fee, DefaultConfig())

			e := PartnerEarnings(b)
			r := PlatformRevenue(b)
			assert.Equal(t, tt.totalNet, e.TotalNet)
			assert.Equal(t, tt.revenue, r.Total)
			assert.Equal(t, tt.price, e.Gross)
			assert.InDelta(t, b.Total, e.TotalNet+r.Total, 1e-9)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{CommissionRate: 1.5}.Validate())
	assert.Error(t, Config{CommissionRate: -0.1}.Validate())
	assert.Error(t, Config{CommissionRate: 0.1, PlatformFee: -1}.Validate())
	assert.Error(t, Config{CommissionRate: math.NaN()}.Validate())
}

func TestNewCheckoutParamsShopVisit(t *testing.T) {
	selected := []model.Service{
		{ID: "cut", Name: "Haircut", Price: 25, Duration: 30},
		{ID: "beard", Name: "Beard Trim", Price: 15, Duration: 15},
	}
	b := ComputeBreakdown(selected, model.ChannelShopVisit, 0, DefaultConfig())

	p := NewCheckoutParams(b, selected, CheckoutRequest{
		BusinessID:    "shop-1",
		BarberID:      "barber-9",
		ScheduledDate: "2026-10-16",
		ScheduledTime: "14:30",
	})

	assert.Equal(t, "barbershop", p["bookingType"])
	assert.Equal(t, "40", p["subtotal"])
	assert.Equal(t, "0", p["travelCost"])
	assert.Equal(t, "2", p["platformFee"])
	assert.Equal(t, p["platformFee"], p["bookingFee"])
	assert.Equal(t, "4.8", p["serviceCommission"])
	assert.Equal(t, "35.2", p["barberServiceEarning"])
	assert.Equal(t, "42", p["amount"])
	assert.Equal(t, "45", p["totalDuration"])
	assert.Equal(t, "Haircut, Beard Trim", p["serviceName"])
	assert.Equal(t, "cut,beard", p["serviceIds"])
	assert.Equal(t, "2026-10-16", p["scheduledDate"])
	assert.Equal(t, "14:30", p["scheduledTime"])
	assert.Equal(t, "shop-1", p["shopId"])
	assert.Equal(t, "barber-9", p["barberId"])
}

func TestNewCheckoutParamsAtLocation(t *testing.T) {
	selected := services(30)
	b := ComputeBreakdown(selected, model.ChannelAtLocation, 6.5, DefaultConfig())

	p := NewCheckoutParams(b, selected, CheckoutRequest{})
	assert.Equal(t, "on-demand", p["bookingType"])
	assert.Equal(t, "6.5", p["travelCost"])
	assert.Equal(t, "38.5", p["amount"])
	_, hasShop := p["shopId"]
	assert.False(t, hasShop)
}
