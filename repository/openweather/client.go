// Package openweather implements the weather provider against the
// OpenWeatherMap REST API (current conditions and 5-day forecast).
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Config carries the API credentials and transport limits.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	http    *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds an OpenWeatherMap client. Results are always metric.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

var _ repository.WeatherProvider = (*Client)(nil)

// currentResponse mirrors the loosely typed provider payload at the boundary;
// it is coerced into the strongly typed snapshot immediately after decoding.
type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type forecastResponse struct {
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	List []struct {
		Dt      int64 `json:"dt"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	} `json:"list"`
}

func (c *Client) Current(ctx context.Context, location string) (*domain.WeatherSnapshot, error) {
	endpoint := fmt.Sprintf("%s/weather?q=%s&units=metric&appid=%s",
		c.baseURL, url.QueryEscape(location), c.apiKey)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "weather data fetch failed", err)
	}

	snapshot := &domain.WeatherSnapshot{
		Location:    location,
		TempCelsius: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
		FetchedAt:   time.Now(),
	}
	if len(payload.Weather) > 0 {
		snapshot.Condition = payload.Weather[0].Main
		snapshot.Description = payload.Weather[0].Description
	}
	return snapshot, nil
}

func (c *Client) DailyForecast(ctx context.Context, lat, lon float64) (*domain.Forecast, error) {
	endpoint := fmt.Sprintf("%s/forecast?lat=%g&lon=%g&units=metric&appid=%s",
		c.baseURL, lat, lon, c.apiKey)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload forecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "forecast data fetch failed", err)
	}

	forecast := &domain.Forecast{
		Lat:       lat,
		Lon:       lon,
		City:      payload.City.Name,
		FetchedAt: time.Now(),
	}
	for _, slot := range payload.List {
		entry := domain.ForecastEntry{
			At:          time.Unix(slot.Dt, 0).UTC(),
			TempCelsius: slot.Main.Temp,
		}
		if len(slot.Weather) > 0 {
			entry.Condition = slot.Weather[0].Main
		}
		forecast.Entries = append(forecast.Entries, entry)
	}
	return forecast, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "weather data fetch failed", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn("weather provider returned non-200",
			zap.Int("status", resp.StatusCode()))
		return nil, domain.NewError(domain.ErrCodeUnavailable,
			fmt.Sprintf("weather provider responded with status %d", resp.StatusCode()))
	}

	// The response body is reused by fasthttp once released.
	return append([]byte(nil), resp.Body()...), nil
}
