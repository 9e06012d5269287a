// Package discovery filters and ranks businesses for the discovery list.
package discovery

import (
	"fmt"
	"math"
	"strings"

	"marigunting/internal/model"
)

// PriceBracket buckets a business by the price of its cheapest service.
type PriceBracket string

const (
	PriceAll     PriceBracket = "all"
	PriceBudget  PriceBracket = "budget"
	PriceMid     PriceBracket = "mid"
	PricePremium PriceBracket = "premium"
)

// DefaultMaxDistanceKm is the distance ceiling shown by default.
const DefaultMaxDistanceKm = 20.0

// ParsePriceBracket accepts the bracket names case-insensitively; "" means all.
func ParsePriceBracket(s string) (PriceBracket, error) {
	switch b := PriceBracket(strings.ToLower(strings.TrimSpace(s))); b {
	case "", PriceAll:
		return PriceAll, nil
	case PriceBudget, PriceMid, PricePremium:
		return b, nil
	default:
		return PriceAll, fmt.Errorf("unknown price bracket %q", s)
	}
}

// FilterCriteria is the set of filters a caller applies to the discovery list.
//
// MaxDistanceKm is always applied, so the zero value keeps only businesses at
// (or without) a distance. Start from DefaultCriteria and change the fields
// you need.
type FilterCriteria struct {
	MaxDistanceKm float64      `json:"maxDistanceKm" yaml:"max_distance_km"`
	PriceBracket  PriceBracket `json:"priceBracket" yaml:"price_bracket"`
	OpenNowOnly   bool         `json:"openNowOnly" yaml:"open_now_only"`
	VerifiedOnly  bool         `json:"verifiedOnly" yaml:"verified_only"`
}

// DefaultCriteria is the unfiltered view: 20 km ceiling, every price.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{MaxDistanceKm: DefaultMaxDistanceKm, PriceBracket: PriceAll}
}

func (c FilterCriteria) bracket() PriceBracket {
	if c.PriceBracket == "" {
		return PriceAll
	}
	return c.PriceBracket
}

// HasActiveFilters reports whether c narrows the list compared to defaults.
func HasActiveFilters(c, defaults FilterCriteria) bool {
	return c.MaxDistanceKm < defaults.MaxDistanceKm ||
		c.bracket() != PriceAll ||
		c.OpenNowOnly ||
		c.VerifiedOnly
}

// Brackets holds the upper bounds of the budget and mid brackets.
// budget: min <= BudgetMax; mid: BudgetMax < min <= MidMax; premium: min > MidMax.
type Brackets struct {
	BudgetMax float64
	MidMax    float64
}

// DefaultBrackets returns the 20 / 40 split.
func DefaultBrackets() Brackets {
	return Brackets{BudgetMax: 20, MidMax: 40}
}

// Match reports whether a cheapest-service price falls in bracket.
func (b Brackets) Match(bracket PriceBracket, minPrice float64) bool {
	switch bracket {
	case "", PriceAll:
		return true
	case PriceBudget:
		return minPrice <= b.BudgetMax
	case PriceMid:
		return minPrice > b.BudgetMax && minPrice <= b.MidMax
	case PricePremium:
		return minPrice > b.MidMax
	default:
		return false
	}
}

// MinPrice returns the cheapest service price. ok is false when the business
// has no services or any price is negative or not a finite number.
func MinPrice(b model.Business) (float64, bool) {
	if len(b.Services) == 0 {
		return 0, false
	}
	lowest := math.Inf(1)
	for _, s := range b.Services {
		if s.Price < 0 || math.IsNaN(s.Price) || math.IsInf(s.Price, 0) {
			return 0, false
		}
		if s.Price < lowest {
			lowest = s.Price
		}
	}
	return lowest, true
}
