package domain

import "time"

// WeatherSnapshot is the cached result of one current-conditions lookup,
// keyed by the exact location text that was queried (no normalization).
type WeatherSnapshot struct {
	Location    string    `json:"location"`
	Condition   string    `json:"condition"`
	Description string    `json:"description,omitempty"`
	TempCelsius float64   `json:"temp_celsius"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Conditions that make outdoor work a bad idea.
var unsuitableConditions = map[string]struct{}{
	"Rain":         {},
	"Snow":         {},
	"Thunderstorm": {},
	"Drizzle":      {},
	"Tornado":      {},
}

// SuitableForOutdoor reports whether the captured conditions allow outdoor activity.
func (w *WeatherSnapshot) SuitableForOutdoor() bool {
	if w == nil {
		return false
	}
	_, bad := unsuitableConditions[w.Condition]
	return !bad
}

// ForecastEntry is a single slot of a multi-day forecast.
type ForecastEntry struct {
	At          time.Time `json:"at"`
	Condition   string    `json:"condition"`
	TempCelsius float64   `json:"temp_celsius"`
}

// Forecast is a coordinate-keyed multi-day outlook used for outdoor planning.
type Forecast struct {
	Lat       float64         `json:"lat"`
	Lon       float64         `json:"lon"`
	City      string          `json:"city,omitempty"`
	Entries   []ForecastEntry `json:"entries"`
	FetchedAt time.Time       `json:"fetched_at"`
}
