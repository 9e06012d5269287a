package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"marigunting/internal/discovery"
	"marigunting/internal/model"
	"marigunting/internal/pricing"
	"marigunting/internal/slots"
)

type Config struct {
	Log struct {
		Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`

	Pricing pricing.Config            `yaml:"pricing"`
	Travel  pricing.TravelFeeSchedule `yaml:"travel"`

	Discovery struct {
		MaxDistanceKm float64 `yaml:"max_distance_km" validate:"gte=0"`
		BudgetMax     float64 `yaml:"budget_max" validate:"gte=0"`
		MidMax        float64 `yaml:"mid_max" validate:"gte=0"`

		Weights struct {
			Rating            float64 `yaml:"rating" validate:"gte=0"`
			Proximity         float64 `yaml:"proximity" validate:"gte=0"`
			Popularity        float64 `yaml:"popularity" validate:"gte=0"`
			PopularityDivisor float64 `yaml:"popularity_divisor" validate:"gte=0"`
		} `yaml:"weights"`
	} `yaml:"discovery"`

	Schedule struct {
		// IANA name; empty evaluates hours on the caller's local clock.
		Timezone string `yaml:"timezone"`
	} `yaml:"schedule"`

	Booking struct {
		Grid                  slots.Grid `yaml:"grid"`
		DateCandidates        int        `yaml:"date_candidates" validate:"gte=0,lte=60"`
		SessionTimeoutMinutes int        `yaml:"session_timeout_minutes" validate:"gte=0"`
		DefaultChannel        string     `yaml:"default_channel" validate:"omitempty,oneof=shop_visit at_location"`
	} `yaml:"booking"`

	Catalog struct {
		Path                  string `yaml:"path"`
		ReloadIntervalSeconds int    `yaml:"reload_interval_seconds" validate:"gte=0"`
	} `yaml:"catalog"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port" validate:"gte=0,lte=65535"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port" validate:"gte=0,lte=65535"`
	} `yaml:"monitoring"`
}

// Load reads the YAML config at path. A .env file next to the process, when
// present, is loaded first so ${VAR} placeholders can refer to it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file overrides anything.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	// Each money field defaults on its own; a zero value means "unset".
	pc := pricing.DefaultConfig()
	if c.Pricing.CommissionRate == 0 {
		c.Pricing.CommissionRate = pc.CommissionRate
	}
	if c.Pricing.PlatformFee == 0 {
		c.Pricing.PlatformFee = pc.PlatformFee
	}
	tf := pricing.DefaultTravelFeeSchedule()
	if c.Travel.BaseFee == 0 {
		c.Travel.BaseFee = tf.BaseFee
	}
	if c.Travel.BaseDistanceKm == 0 {
		c.Travel.BaseDistanceKm = tf.BaseDistanceKm
	}
	if c.Travel.PerKm == 0 {
		c.Travel.PerKm = tf.PerKm
	}

	d := &c.Discovery
	if d.MaxDistanceKm == 0 {
		d.MaxDistanceKm = discovery.DefaultMaxDistanceKm
	}
	if d.BudgetMax == 0 && d.MidMax == 0 {
		b := discovery.DefaultBrackets()
		d.BudgetMax, d.MidMax = b.BudgetMax, b.MidMax
	}
	if d.Weights.Rating == 0 && d.Weights.Proximity == 0 && d.Weights.Popularity == 0 {
		w := discovery.DefaultWeights()
		d.Weights.Rating, d.Weights.Proximity, d.Weights.Popularity = w.Rating, w.Proximity, w.Popularity
	}
	if d.Weights.PopularityDivisor == 0 {
		d.Weights.PopularityDivisor = discovery.DefaultWeights().PopularityDivisor
	}

	b := &c.Booking
	def := slots.DefaultGrid()
	if b.Grid.Start == "" {
		b.Grid.Start = def.Start
	}
	if b.Grid.End == "" {
		b.Grid.End = def.End
	}
	if b.Grid.StepMinutes == 0 {
		b.Grid.StepMinutes = def.StepMinutes
	}
	if b.DefaultChannel == "" {
		b.DefaultChannel = string(model.ChannelShopVisit)
	}

	if c.Catalog.Path == "" {
		c.Catalog.Path = "configs/catalog.yaml"
	}
}

// Validate runs the struct tag rules and then the cross-field checks.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if err := c.Pricing.Validate(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	if c.Discovery.MidMax < c.Discovery.BudgetMax {
		return fmt.Errorf("discovery: mid_max %v must not be below budget_max %v",
			c.Discovery.MidMax, c.Discovery.BudgetMax)
	}
	if c.Booking.Grid.StepMinutes < 0 {
		return fmt.Errorf("booking.grid.step_minutes must be positive")
	}
	if _, err := c.Booking.Grid.Slots(); err != nil {
		return fmt.Errorf("booking.grid: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	return nil
}

func (c *Config) PricingConfig() pricing.Config {
	return c.Pricing
}

func (c *Config) TravelSchedule() pricing.TravelFeeSchedule {
	return c.Travel
}

// Location resolves the schedule timezone. nil means caller-local.
func (c *Config) Location() (*time.Location, error) {
	if c.Schedule.Timezone == "" {
		return nil, nil
	}
	return time.LoadLocation(c.Schedule.Timezone)
}

func (c *Config) Grid() slots.Grid {
	return c.Booking.Grid
}

func (c *Config) DefaultCriteria() discovery.FilterCriteria {
	return discovery.FilterCriteria{MaxDistanceKm: c.Discovery.MaxDistanceKm, PriceBracket: discovery.PriceAll}
}

func (c *Config) Brackets() discovery.Brackets {
	return discovery.Brackets{BudgetMax: c.Discovery.BudgetMax, MidMax: c.Discovery.MidMax}
}

func (c *Config) Weights() discovery.Weights {
	w := c.Discovery.Weights
	return discovery.Weights{
		Rating:             w.Rating,
		Proximity:          w.Proximity,
		Popularity:         w.Popularity,
		ProximityCeilingKm: discovery.DefaultWeights().ProximityCeilingKm,
		PopularityDivisor:  w.PopularityDivisor,
	}
}

func (c *Config) Channel() model.Channel {
	return model.Channel(c.Booking.DefaultChannel)
}

func (c *Config) SessionTimeout() time.Duration {
	if c.Booking.SessionTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Booking.SessionTimeoutMinutes) * time.Minute
}

func (c *Config) CatalogReloadInterval() time.Duration {
	if c.Catalog.ReloadIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Catalog.ReloadIntervalSeconds) * time.Second
}
