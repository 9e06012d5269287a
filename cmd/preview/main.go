package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"marigunting/internal/booking"
	"marigunting/internal/config"
	"marigunting/internal/discovery"
	"marigunting/internal/events"
	"marigunting/internal/metrics"
	"marigunting/internal/model"
	"marigunting/internal/pricing"
	"marigunting/internal/schedule"
	"marigunting/internal/slots"
)

type app struct {
	cfg     *config.Config
	engine  *discovery.Engine
	eval    *schedule.Evaluator
	store   *booking.DraftStore
	bus     *events.EventBus
	catalog atomic.Pointer[config.Catalog]
	logger  *zerolog.Logger

	// previews caps how often a burst of catalog edits re-runs the preview.
	previews *rate.Limiter
}

func main() {
	cfg, err := config.Load(os.Getenv("MARIGUNTING_CONFIG_PATH"))
	if err != nil {
		fallback := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg)

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid schedule timezone")
	}
	eval := schedule.New(loc)

	a := &app{
		cfg:    cfg,
		eval:   eval,
		engine: discovery.NewEngine(discovery.NewPipeline(eval, cfg.Brackets()), cfg.Weights(), &logger),
		store:  booking.NewDraftStore(cfg.SessionTimeout()),
		bus:    events.NewEventBus(),
		logger: &logger,

		previews: rate.NewLimiter(rate.Every(5*time.Second), 1),
	}
	a.subscribe()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}
	if cfg.Monitoring.HealthCheckPort != 0 {
		go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, a, &logger)
	}

	// Initial load + hot reload of the catalog
	if err := config.WatchCatalog(ctx, cfg.Catalog.Path, cfg.CatalogReloadInterval(), &logger, func(c *config.Catalog) {
		a.catalog.Store(c)
		if err := a.previews.Wait(ctx); err != nil {
			return
		}
		a.preview(time.Now())
	}); err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("failed to load catalog")
	}

	go a.cleanupLoop(ctx)

	logger.Info().Msg("preview started")
	<-ctx.Done()
	logger.Info().Msg("preview stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.Log.JSON {
		return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func (a *app) subscribe() {
	a.bus.Subscribe(events.TypeConfirmReached, func(e events.Event) error {
		var p booking.ConfirmPayload
		if err := e.Decode(&p); err != nil {
			return err
		}
		a.logger.Info().
			Str("draft_id", e.Key).
			Float64("total", p.Breakdown.Total).
			Int("duration_min", p.Breakdown.TotalDurationMinutes).
			Msg("booking reached confirm")
		return nil
	})
	a.bus.Subscribe(events.TypeFlowExited, func(e events.Event) error {
		a.store.Delete(e.Key)
		a.logger.Info().Str("draft_id", e.Key).Msg("booking flow exited")
		return nil
	})
}

// preview runs the discovery views a customer sees first and walks one
// sample booking through to checkout.
func (a *app) preview(now time.Time) {
	c := a.catalog.Load()
	if c == nil {
		return
	}

	defaults := a.cfg.DefaultCriteria()
	views := []struct {
		name     string
		criteria discovery.FilterCriteria
	}{
		{"default", defaults},
		{"budget", discovery.FilterCriteria{MaxDistanceKm: defaults.MaxDistanceKm, PriceBracket: discovery.PriceBudget}},
		{"open_now", discovery.FilterCriteria{MaxDistanceKm: defaults.MaxDistanceKm, OpenNowOnly: true, VerifiedOnly: true}},
	}

	var top []model.Business
	for _, v := range views {
		res := a.engine.Discover(c.Businesses, v.criteria, now)
		page := discovery.Paginate(res.Businesses, 0, discovery.DefaultPageSize)
		ids := make([]string, 0, len(page.Items))
		for _, b := range page.Items {
			ids = append(ids, b.ID)
		}
		a.logger.Info().
			Str("view", v.name).
			Str("mode", string(res.Mode)).
			Strs("businesses", ids).
			Int("total", page.Total).
			Int("pages", page.TotalPages).
			Msg("discovery")
		if v.name == "default" {
			top = res.Businesses
		}
	}

	for _, b := range top {
		if len(b.Services) == 0 {
			continue
		}
		if err := a.sampleBooking(b, now); err != nil {
			a.logger.Warn().Err(err).Str("business_id", b.ID).Msg("sample booking failed")
		}
		return
	}
}

func (a *app) sampleBooking(b model.Business, now time.Time) error {
	channel := a.cfg.Channel()
	flow := a.store.Start(b, booking.Options{
		Channel:   channel,
		TravelFee: a.cfg.TravelSchedule().FeeFor(channel, b.Distance()),
		Pricing:   a.cfg.PricingConfig(),
		Publisher: a.bus,
		Logger:    a.logger,
	})
	defer a.store.Delete(flow.ID())

	cheapest := b.Services[0]
	for _, s := range b.Services[1:] {
		if s.Price < cheapest.Price {
			cheapest = s
		}
	}
	if err := flow.ToggleService(cheapest.ID); err != nil {
		return err
	}
	if err := flow.Forward(); err != nil {
		return err
	}

	if err := flow.SelectBarber(b.ID); err != nil {
		return err
	}
	if err := flow.Forward(); err != nil {
		return err
	}

	date, slot, ok := a.firstOpening(b, a.eval.Local(now), cheapest.Duration)
	if !ok {
		return fmt.Errorf("no opening for %s", cheapest.ID)
	}
	if err := flow.SelectDate(date); err != nil {
		return err
	}
	if err := flow.SelectTime(slot); err != nil {
		return err
	}
	if err := flow.Forward(); err != nil {
		return err
	}

	breakdown, _ := flow.Breakdown()
	params, err := flow.Checkout()
	if err != nil {
		return err
	}
	earnings := pricing.PartnerEarnings(breakdown)
	revenue := pricing.PlatformRevenue(breakdown)

	a.logger.Info().
		Str("business_id", b.ID).
		Str("next_opening", a.openingLabel(b, now)).
		Str("service", params["serviceName"]).
		Str("scheduled", date+" "+slot).
		Str("amount", params["amount"]).
		Str("travel_cost", params["travelCost"]).
		Float64("partner_net", earnings.TotalNet).
		Float64("platform_revenue", revenue.Total).
		Msg("sample quote")
	return nil
}

// openingLabel renders the business's next opening the way a listing card
// shows it: "Today 09:00", "Tomorrow 09:00", "Sun 10:00" or "Closed".
func (a *app) openingLabel(b model.Business, now time.Time) string {
	day, ahead, w, ok := a.eval.NextOpening(b.WeeklyHours, now)
	switch {
	case !ok:
		return "Closed"
	case ahead == 0:
		return "Today " + w.Start
	case ahead == 1:
		return "Tomorrow " + w.Start
	default:
		return day.String()[:3] + " " + w.Start
	}
}

// firstOpening picks the first date and slot long enough for durationMinutes.
func (a *app) firstOpening(b model.Business, now time.Time, durationMinutes int) (string, string, bool) {
	grid := a.cfg.Grid()
	for _, d := range booking.DateCandidates(now, a.cfg.Booking.DateCandidates, b.WeeklyHours) {
		if !d.Open {
			continue
		}
		dayGrid := grid
		if day, ok := schedule.WindowOn(b.WeeklyHours, d.Weekday); ok {
			if g, ok := slots.WindowGrid(day, grid.StepMinutes); ok {
				dayGrid = g
			}
		}
		candidates, err := slots.NewGenerator(nil).GenerateSlots(context.Background(), b.ID, d.Date, dayGrid)
		if err != nil {
			continue
		}
		for _, s := range slots.GetAvailableSlots(candidates) {
			if d.IsToday && s.ID <= schedule.FormatClock(now.Hour()*60+now.Minute()) {
				continue
			}
			if slots.Fits(candidates, s.ID, durationMinutes, dayGrid.StepMinutes) {
				return d.Date, s.ID, true
			}
		}
	}
	return "", "", false
}

func (a *app) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := a.store.Cleanup(); n > 0 {
				a.logger.Debug().Int("removed", n).Msg("expired booking drafts removed")
			}
		case <-ctx.Done():
			return
		}
	}
}

func startHealthServer(ctx context.Context, port int, a *app, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if a.catalog.Load() == nil {
			http.Error(w, "catalog not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
