package monitor

import "time"

type Status struct {
	PostgreSQL    bool      `json:"postgresql"`
	Redis         bool      `json:"redis"`
	WeatherCache  bool      `json:"weather_cache"`
	SnapshotCount int       `json:"snapshot_count"`
	LastCheck     time.Time `json:"last_check"`
}
