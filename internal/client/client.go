package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/observability"
)

// WeatherClient fetches current conditions and forecasts from the weather provider.
type WeatherClient interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (json.RawMessage, error)
	Forecast(ctx context.Context, lat, lon float64) (*ForecastResponse, error)
}

var (
	ErrInvalidAPIKey   = errors.New("invalid API key")
	ErrUpstreamFailure = errors.New("upstream failure")
)

// OpenWeatherClient calls the OpenWeatherMap current-weather and forecast
// endpoints with metric units.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenWeatherClient validates the API key and returns a client. A missing
// key is a configuration error, surfaced at startup rather than per request.
func NewOpenWeatherClient(apiKey, baseURL string, timeout time.Duration) (*OpenWeatherClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// ForecastResponse is the provider's forecast payload: 3-hourly samples for
// roughly five days.
type ForecastResponse struct {
	List []ForecastSample `json:"list"`
}

// ForecastSample is one sub-daily forecast entry.
type ForecastSample struct {
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
}

// CurrentWeather fetches current conditions for the coordinates and returns
// the provider body verbatim. Callers cache and forward it unmodified.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	body, err := c.call(ctx, "/weather", lat, lon)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Forecast fetches the multi-day forecast sample list for the coordinates.
func (c *OpenWeatherClient) Forecast(ctx context.Context, lat, lon float64) (*ForecastResponse, error) {
	body, err := c.call(ctx, "/forecast", lat, lon)
	if err != nil {
		return nil, err
	}
	var resp ForecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse forecast response: %w", err)
	}
	return &resp, nil
}

func (c *OpenWeatherClient) call(ctx context.Context, path string, lat, lon float64) ([]byte, error) {
	start := time.Now()

	req, err := c.buildRequest(ctx, path, lat, lon)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(duration)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(duration)

	if err := handleErrorResponse(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

func (c *OpenWeatherClient) buildRequest(ctx context.Context, path string, lat, lon float64) (*http.Request, error) {
	baseURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func handleErrorResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: provider rejected API key", ErrInvalidAPIKey)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}
	return nil
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
