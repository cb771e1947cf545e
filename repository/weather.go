package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

// WeatherProvider is the remote conditions service consulted for outdoor tasks.
type WeatherProvider interface {
	// Current resolves conditions for a free-text location (city name).
	Current(ctx context.Context, location string) (*domain.WeatherSnapshot, error)
	// DailyForecast resolves a multi-day outlook for coordinates.
	DailyForecast(ctx context.Context, lat, lon float64) (*domain.Forecast, error)
}
