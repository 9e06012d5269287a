package discovery

import (
	"math"
	"sort"

	"marigunting/internal/model"
)

// RankingMode selects the ordering of the discovery list.
type RankingMode string

const (
	ByPrice     RankingMode = "by_price"
	Recommended RankingMode = "recommended"
)

// ModeFor encodes the product rule: a price filter implies a price sort.
func ModeFor(c FilterCriteria) RankingMode {
	if c.bracket() != PriceAll {
		return ByPrice
	}
	return Recommended
}

// Weights of the recommendation score.
//
//	score = rating*Rating + (ProximityCeilingKm - distance)*Proximity
//	      + (bookings/PopularityDivisor)*Popularity
type Weights struct {
	Rating             float64
	Proximity          float64
	Popularity         float64
	ProximityCeilingKm float64
	PopularityDivisor  float64
}

// DefaultWeights is the 40/30/30 split with a 20 km ceiling.
func DefaultWeights() Weights {
	return Weights{
		Rating:             0.4,
		Proximity:          0.3,
		Popularity:         0.3,
		ProximityCeilingKm: DefaultMaxDistanceKm,
		PopularityDivisor:  100,
	}
}

// Score computes the recommendation score of b.
func (w Weights) Score(b model.Business) float64 {
	divisor := w.PopularityDivisor
	if divisor == 0 {
		divisor = 100
	}
	return b.Rating*w.Rating +
		(w.ProximityCeilingKm-b.Distance())*w.Proximity +
		(float64(b.BookingsCount)/divisor)*w.Popularity
}

// Score uses the default weights.
func Score(b model.Business) float64 {
	return DefaultWeights().Score(b)
}

// Ranker orders businesses. Sorting is stable: ties keep input order.
type Ranker struct {
	Weights Weights
}

type keyed struct {
	b     model.Business
	key   float64
	valid bool
}

// Rank returns a sorted copy of businesses.
//
// ByPrice sorts ascending by cheapest service; businesses without a usable
// price go last. Recommended sorts descending by score.
func (r Ranker) Rank(businesses []model.Business, mode RankingMode) []model.Business {
	items := make([]keyed, len(businesses))
	for i, b := range businesses {
		items[i] = r.key(b, mode)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.valid != b.valid {
			return a.valid
		}
		if !a.valid {
			return false
		}
		if mode == ByPrice {
			return a.key < b.key
		}
		return a.key > b.key
	})

	out := make([]model.Business, len(items))
	for i, it := range items {
		out[i] = it.b
	}
	return out
}

func (r Ranker) key(b model.Business, mode RankingMode) keyed {
	if mode == ByPrice {
		price, ok := MinPrice(b)
		return keyed{b: b, key: price, valid: ok}
	}
	score := r.Weights.Score(b)
	return keyed{b: b, key: score, valid: !math.IsNaN(score)}
}

// Rank orders businesses with the default weights.
func Rank(businesses []model.Business, mode RankingMode) []model.Business {
	return Ranker{Weights: DefaultWeights()}.Rank(businesses, mode)
}
