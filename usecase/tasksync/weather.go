package tasksync

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
)

// WeatherFor returns the cached entry for a location, fetching it exactly
// once per distinct location string over the core's lifetime. A terminal
// entry (success or failure) is never re-fetched; callers hitting a fetch
// already in flight observe the loading entry instead of issuing a second
// request. The key is the exact location text, no normalization.
func (c *Core) WeatherFor(ctx context.Context, location string) WeatherEntry {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return WeatherEntry{Status: StatusIdle}
	}
	if entry, ok := c.cache[location]; ok {
		out := *entry
		c.mu.Unlock()
		return out
	}
	entry := &WeatherEntry{Status: StatusLoading}
	c.cache[location] = entry
	c.mu.Unlock()

	snapshot, err := c.weather.Current(ctx, location)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return WeatherEntry{Status: StatusIdle}
	}
	if err != nil {
		entry.Status = StatusFailed
		entry.Err = err.Error()
	} else {
		entry.Status = StatusSucceeded
		entry.Snapshot = snapshot
	}
	out := *entry
	c.mu.Unlock()

	if err == nil && c.sink != nil {
		if sinkErr := c.sink.Put(*snapshot); sinkErr != nil {
			c.logger.Warn("weather snapshot persistence failed",
				zap.String("location", location), zap.Error(sinkErr))
		}
	}

	c.notify()
	return out
}

// OutdoorForecast fetches a multi-day outlook for coordinates and keeps the
// latest result on the core. Unlike current conditions it is not cached per
// key; each call refreshes the stored forecast.
func (c *Core) OutdoorForecast(ctx context.Context, lat, lon float64) (*domain.Forecast, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	forecast, err := c.weather.DailyForecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.forecast = forecast
	c.mu.Unlock()
	c.notify()
	return forecast, nil
}

// SeedWeather pre-populates the cache with previously persisted snapshots.
// Seeded entries count as fetched, so they are never looked up again.
// Intended to run once right after construction; it does not notify.
func (c *Core) SeedWeather(snapshots []domain.WeatherSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for i := range snapshots {
		s := snapshots[i]
		if _, ok := c.cache[s.Location]; ok {
			continue
		}
		c.cache[s.Location] = &WeatherEntry{Status: StatusSucceeded, Snapshot: &s}
	}
}
