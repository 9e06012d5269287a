package discovery

import (
	"time"

	"marigunting/internal/model"
	"marigunting/internal/schedule"
)

// Filter names, in the order they run.
const (
	FilterDistance = "distance"
	FilterPrice    = "price"
	FilterOpenNow  = "open_now"
	FilterVerified = "verified"
)

// Pipeline applies the discovery filters in a fixed order:
// distance, price bracket, open now, verified only.
type Pipeline struct {
	evaluator *schedule.Evaluator
	brackets  Brackets
}

// NewPipeline creates a pipeline. A nil evaluator uses the caller's local time.
func NewPipeline(evaluator *schedule.Evaluator, brackets Brackets) *Pipeline {
	if evaluator == nil {
		evaluator = schedule.New(nil)
	}
	return &Pipeline{evaluator: evaluator, brackets: brackets}
}

type stage struct {
	name string
	keep func(model.Business) bool
}

func (p *Pipeline) stages(c FilterCriteria, now time.Time) []stage {
	stages := []stage{{
		name: FilterDistance,
		keep: func(b model.Business) bool {
			return b.Distance() <= c.MaxDistanceKm
		},
	}}

	if bracket := c.bracket(); bracket != PriceAll {
		stages = append(stages, stage{
			name: FilterPrice,
			keep: func(b model.Business) bool {
				lowest, ok := MinPrice(b)
				return ok && p.brackets.Match(bracket, lowest)
			},
		})
	}

	if c.OpenNowOnly {
		stages = append(stages, stage{
			name: FilterOpenNow,
			keep: func(b model.Business) bool {
				if len(b.WeeklyHours) == 0 {
					return b.OpenFallback
				}
				return p.evaluator.IsOpenNow(b.WeeklyHours, now)
			},
		})
	}

	if c.VerifiedOnly {
		stages = append(stages, stage{
			name: FilterVerified,
			keep: func(b model.Business) bool { return b.IsVerified },
		})
	}

	return stages
}

// Apply returns the businesses that pass every filter, in input order.
// The input slice is never modified.
func (p *Pipeline) Apply(businesses []model.Business, c FilterCriteria, now time.Time) []model.Business {
	kept, _ := p.run(businesses, c, now)
	return kept
}

// run also reports how many businesses each filter dropped.
func (p *Pipeline) run(businesses []model.Business, c FilterCriteria, now time.Time) ([]model.Business, map[string]int) {
	excluded := make(map[string]int)
	current := make([]model.Business, len(businesses))
	copy(current, businesses)

	for _, st := range p.stages(c, now) {
		next := current[:0:0]
		for _, b := range current {
			if st.keep(b) {
				next = append(next, b)
			}
		}
		excluded[st.name] = len(current) - len(next)
		current = next
	}
	return current, excluded
}

// ApplyFilters runs the default pipeline: default brackets, caller-local time.
func ApplyFilters(businesses []model.Business, c FilterCriteria, now time.Time) []model.Business {
	return NewPipeline(nil, DefaultBrackets()).Apply(businesses, c, now)
}
