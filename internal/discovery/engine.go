package discovery

import (
	"time"

	"github.com/rs/zerolog"

	"marigunting/internal/metrics"
	"marigunting/internal/model"
)

// Result is one discovery run.
type Result struct {
	Mode       RankingMode
	Businesses []model.Business
	Excluded   map[string]int // per filter name
}

// Engine filters then ranks, choosing the ranking mode from the criteria.
// It is safe to call repeatedly; every call works on a fresh copy.
type Engine struct {
	pipeline *Pipeline
	ranker   Ranker
	logger   *zerolog.Logger
}

// NewEngine creates an engine. nil pipeline means default brackets and
// caller-local time.
func NewEngine(pipeline *Pipeline, weights Weights, logger *zerolog.Logger) *Engine {
	if pipeline == nil {
		pipeline = NewPipeline(nil, DefaultBrackets())
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Engine{
		pipeline: pipeline,
		ranker:   Ranker{Weights: weights},
		logger:   logger,
	}
}

// Discover applies the filters and ranks what is left.
func (e *Engine) Discover(businesses []model.Business, c FilterCriteria, now time.Time) Result {
	kept, excluded := e.pipeline.run(businesses, c, now)
	mode := ModeFor(c)
	ranked := e.ranker.Rank(kept, mode)

	metrics.IncDiscoveryRun(string(mode))
	for name, n := range excluded {
		metrics.AddExcluded(name, n)
	}

	e.logger.Debug().
		Str("mode", string(mode)).
		Int("input", len(businesses)).
		Int("result", len(ranked)).
		Float64("max_distance_km", c.MaxDistanceKm).
		Str("price_bracket", string(c.bracket())).
		Bool("open_now", c.OpenNowOnly).
		Bool("verified_only", c.VerifiedOnly).
		Msg("discovery run")

	return Result{Mode: mode, Businesses: ranked, Excluded: excluded}
}
