// Package model holds the value types shared by discovery, booking and pricing.
package model

// Service is a purchasable offering of a business.
type Service struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Price       float64 `json:"price" yaml:"price"`       // currency units
	Duration    int     `json:"duration" yaml:"duration"` // minutes
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Business is a bookable shop or independent provider.
type Business struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	DistanceKm    *float64    `json:"distance,omitempty" yaml:"distance,omitempty"`
	Rating        float64     `json:"rating" yaml:"rating"` // 0.0-5.0
	ReviewsCount  int         `json:"reviewsCount" yaml:"reviews_count"`
	BookingsCount int         `json:"bookingsCount" yaml:"bookings_count"`
	IsVerified    bool        `json:"isVerified" yaml:"is_verified"`
	Services      []Service   `json:"services" yaml:"services"`
	WeeklyHours   WeeklyHours `json:"detailedHours,omitempty" yaml:"weekly_hours,omitempty"`

	// OpenFallback is the feed's precomputed open flag, consulted only when
	// the business publishes no weekly hours at all.
	OpenFallback bool `json:"isOpen,omitempty" yaml:"is_open,omitempty"`
}

// Distance returns the distance from the caller, treating a missing value as 0.
func (b Business) Distance() float64 {
	if b.DistanceKm == nil {
		return 0
	}
	return *b.DistanceKm
}

// ServiceByID looks a service up in the business catalog.
func (b Business) ServiceByID(id string) (Service, bool) {
	for _, s := range b.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// Km is a helper for building optional distances.
func Km(v float64) *float64 {
	return &v
}
