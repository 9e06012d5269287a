package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"marigunting/internal/model"
	"marigunting/internal/schedule"
)

// Catalog is the root of catalog.yaml: the businesses a preview runs against.
type Catalog struct {
	Businesses []model.Business `yaml:"businesses"`
}

// LoadCatalog loads and validates the catalog fixture.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		path = "configs/catalog.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return &c, nil
}

// Validate checks the catalog for errors. Discovery tolerates bad records at
// run time; the fixture itself is held to a stricter standard.
func (c *Catalog) Validate() error {
	if len(c.Businesses) == 0 {
		return fmt.Errorf("no businesses defined")
	}

	ids := make(map[string]bool)
	for i, b := range c.Businesses {
		if b.ID == "" {
			return fmt.Errorf("business[%d]: id is required", i)
		}
		if ids[b.ID] {
			return fmt.Errorf("business[%d]: duplicate id '%s'", i, b.ID)
		}
		ids[b.ID] = true

		if b.Rating < 0 || b.Rating > 5 {
			return fmt.Errorf("business[%d]: rating %v must be within 0-5", i, b.Rating)
		}
		if b.ReviewsCount < 0 || b.BookingsCount < 0 {
			return fmt.Errorf("business[%d]: counts cannot be negative", i)
		}
		if b.DistanceKm != nil && (*b.DistanceKm < 0 || math.IsNaN(*b.DistanceKm)) {
			return fmt.Errorf("business[%d]: distance cannot be negative", i)
		}

		serviceIDs := make(map[string]bool)
		for j, s := range b.Services {
			prefix := fmt.Sprintf("business[%d].services[%d]", i, j)
			if s.ID == "" {
				return fmt.Errorf("%s: id is required", prefix)
			}
			if serviceIDs[s.ID] {
				return fmt.Errorf("%s: duplicate id '%s'", prefix, s.ID)
			}
			serviceIDs[s.ID] = true

			if s.Price < 0 || math.IsNaN(s.Price) || math.IsInf(s.Price, 0) {
				return fmt.Errorf("%s: price must be a non-negative number", prefix)
			}
			if s.Duration <= 0 {
				return fmt.Errorf("%s: duration must be positive", prefix)
			}
		}

		for wd, day := range b.WeeklyHours {
			if !day.IsOpen {
				continue
			}
			if _, _, ok := schedule.OpenMinutes(day); !ok {
				return fmt.Errorf("business[%d].weekly_hours.%s: invalid window '%s'-'%s', expected HH:MM with end after start",
					i, model.DayKey(wd), day.Start, day.End)
			}
		}
	}
	return nil
}

// Find returns the business with id.
func (c *Catalog) Find(id string) (model.Business, bool) {
	for _, b := range c.Businesses {
		if b.ID == id {
			return b, true
		}
	}
	return model.Business{}, false
}
