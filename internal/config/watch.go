package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// WatchCatalog reloads catalog.yaml on change and calls onUpdate with the latest catalog.
// It performs an initial load before entering the watch loop. A reload that
// fails validation is logged and skipped; the previous catalog stays current.
func WatchCatalog(ctx context.Context, path string, interval time.Duration, logger *zerolog.Logger, onUpdate func(*Catalog)) error {
	if path == "" {
		path = "configs/catalog.yaml"
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	c, err := LoadCatalog(path)
	if err != nil {
		return err
	}
	if onUpdate != nil {
		onUpdate(c)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(path)
				if err != nil {
					continue // transient errors
				}
				if !info.ModTime().After(lastMod) {
					continue
				}
				lastMod = info.ModTime()
				c, err := LoadCatalog(path)
				if err != nil {
					logger.Warn().Err(err).Str("path", path).Msg("catalog reload failed")
					continue
				}
				logger.Info().Str("path", path).Int("businesses", len(c.Businesses)).Msg("catalog reloaded")
				if onUpdate != nil {
					onUpdate(c)
				}
			}
		}
	}()

	return nil
}
