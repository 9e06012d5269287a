package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marigunting/internal/discovery"
	"marigunting/internal/model"
	"marigunting/internal/pricing"
	"marigunting/internal/slots"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "log:\n  level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, pricing.DefaultConfig(), cfg.PricingConfig())
	assert.Equal(t, pricing.DefaultTravelFeeSchedule(), cfg.TravelSchedule())
	assert.Equal(t, discovery.DefaultCriteria(), cfg.DefaultCriteria())
	assert.Equal(t, discovery.DefaultBrackets(), cfg.Brackets())
	assert.Equal(t, discovery.DefaultWeights(), cfg.Weights())
	assert.Equal(t, slots.DefaultGrid(), cfg.Grid())
	assert.Equal(t, model.ChannelShopVisit, cfg.Channel())
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout())
	assert.Equal(t, 30*time.Second, cfg.CatalogReloadInterval())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Nil(t, loc, "no timezone means caller-local")
}

func TestLoadOverridesAndEnv(t *testing.T) {
	t.Setenv("MG_PLATFORM_FEE", "3.5")
	path := writeFile(t, t.TempDir(), "config.yaml", `
pricing:
  commission_rate: 0.15
  platform_fee: ${MG_PLATFORM_FEE}
discovery:
  max_distance_km: 10
  budget_max: 25
  mid_max: 50
schedule:
  timezone: UTC
booking:
  grid:
    start: "10:00"
    end: "18:00"
    step_minutes: 60
  default_channel: at_location
  session_timeout_minutes: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, pricing.Config{CommissionRate: 0.15, PlatformFee: 3.5}, cfg.PricingConfig())
	assert.Equal(t, 10.0, cfg.DefaultCriteria().MaxDistanceKm)
	assert.Equal(t, discovery.Brackets{BudgetMax: 25, MidMax: 50}, cfg.Brackets())
	assert.Equal(t, model.ChannelAtLocation, cfg.Channel())
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout())

	grid, err := cfg.Grid().Slots()
	require.NoError(t, err)
	assert.Len(t, grid, 8)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadDefaultsEachPricingField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
pricing:
  commission_rate: 0.15
travel:
  per_km: 1.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, pricing.Config{CommissionRate: 0.15, PlatformFee: 2}, cfg.PricingConfig())
	assert.Equal(t, pricing.TravelFeeSchedule{BaseFee: 5, BaseDistanceKm: 4, PerKm: 1.5}, cfg.TravelSchedule())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"commission above one", "pricing:\n  commission_rate: 1.2\n"},
		{"negative fee", "pricing:\n  commission_rate: 0.1\n  platform_fee: -1\n"},
		{"brackets inverted", "discovery:\n  budget_max: 40\n  mid_max: 20\n"},
		{"grid inverted", "booking:\n  grid:\n    start: \"21:00\"\n    end: \"09:00\"\n"},
		{"negative step", "booking:\n  grid:\n    step_minutes: -30\n"},
		{"unknown channel", "booking:\n  default_channel: teleport\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad timezone", "schedule:\n  timezone: Mars/Olympus\n"},
		{"not yaml", "pricing: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

const catalogYAML = `
businesses:
  - id: kedai-gunting
    name: Kedai Gunting
    distance: 1.5
    rating: 4.6
    bookings_count: 120
    is_verified: true
    services:
      - {id: cut, name: Haircut, price: 25, duration: 30}
      - {id: beard, name: Beard Trim, price: 15, duration: 15}
    weekly_hours:
      mon: {is_open: true, start: "09:00", end: "18:00"}
      sun: {is_open: false, start: "", end: ""}
  - id: mobile-ali
    name: Ali Mobile Barber
    rating: 4.2
    is_open: true
    services:
      - {id: cut, name: Haircut, price: 35, duration: 45}
`

func TestLoadCatalog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.yaml", catalogYAML)

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Businesses, 2)

	b, ok := c.Find("kedai-gunting")
	require.True(t, ok)
	assert.Equal(t, 1.5, b.Distance())
	assert.True(t, b.WeeklyHours[time.Monday].IsOpen)
	assert.Len(t, b.Services, 2)

	ali, ok := c.Find("mobile-ali")
	require.True(t, ok)
	assert.Nil(t, ali.DistanceKm)
	assert.True(t, ali.OpenFallback)

	_, ok = c.Find("nobody")
	assert.False(t, ok)
}

func TestCatalogValidate(t *testing.T) {
	svc := model.Service{ID: "cut", Name: "Haircut", Price: 10, Duration: 30}

	tests := []struct {
		name    string
		catalog Catalog
		wantErr string
	}{
		{"empty", Catalog{}, "no businesses"},
		{"missing id", Catalog{Businesses: []model.Business{{Name: "x"}}}, "business[0]: id is required"},
		{"duplicate id", Catalog{Businesses: []model.Business{{ID: "a"}, {ID: "a"}}}, "business[1]: duplicate id"},
		{"rating", Catalog{Businesses: []model.Business{{ID: "a", Rating: 6}}}, "rating"},
		{"negative distance", Catalog{Businesses: []model.Business{{ID: "a", DistanceKm: model.Km(-1)}}}, "distance"},
		{"negative price", Catalog{Businesses: []model.Business{{ID: "a",
			Services: []model.Service{{ID: "cut", Price: -1, Duration: 30}}}}}, "business[0].services[0]: price"},
		{"zero duration", Catalog{Businesses: []model.Business{{ID: "a",
			Services: []model.Service{{ID: "cut", Price: 1}}}}}, "duration"},
		{"duplicate service", Catalog{Businesses: []model.Business{{ID: "a",
			Services: []model.Service{svc, svc}}}}, "services[1]: duplicate id"},
		{"overnight window", Catalog{Businesses: []model.Business{{ID: "a",
			WeeklyHours: model.WeeklyHours{time.Friday: {IsOpen: true, Start: "22:00", End: "02:00"}}}}},
			"weekly_hours.fri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatchCatalogReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", catalogYAML)

	var mu sync.Mutex
	var seen []int
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := WatchCatalog(ctx, path, 10*time.Millisecond, nil, func(c *Catalog) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, len(c.Businesses))
	})
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []int{2}, seen, "initial load is synchronous")
	mu.Unlock()

	// Invalid edits are skipped.
	require.NoError(t, os.WriteFile(path, []byte("businesses: []\n"), 0o600))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))
	time.Sleep(50 * time.Millisecond)

	one := "businesses:\n  - id: solo\n    services:\n      - {id: cut, name: Cut, price: 10, duration: 30}\n"
	require.NoError(t, os.WriteFile(path, []byte(one), 0o600))
	later := future.Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2 && seen[1] == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatchCatalogInitialError(t *testing.T) {
	err := WatchCatalog(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), time.Second, nil, nil)
	assert.Error(t, err)
}

func TestShippedConfigsLoad(t *testing.T) {
	t.Setenv("MARIGUNTING_TIMEZONE", "")
	cfg, err := Load("../../configs/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultConfig(), cfg.PricingConfig())
	assert.True(t, cfg.Monitoring.PrometheusEnabled)

	c, err := LoadCatalog("../../configs/catalog.yaml")
	require.NoError(t, err)
	assert.Len(t, c.Businesses, 4)

	fade, ok := c.Find("fade-lab-pj")
	require.True(t, ok)
	assert.Equal(t, "11:00", fade.WeeklyHours[time.Monday].Start, "legacy open/close fields")
}
