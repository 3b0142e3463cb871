package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/cache"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/client"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/forecast"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/models"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/observability"
)

// ErrNotFound signals that no data could be produced for the requested
// coordinates. Handlers translate it to 404.
var ErrNotFound = errors.New("no weather data for coordinates")

// Geocoder resolves free-text place names to coordinates.
type Geocoder interface {
	ResolveCoordinates(ctx context.Context, name string) (*models.Coordinates, error)
}

// WeatherService orchestrates geocoding and weather retrieval with a
// cache-aside TTL cache in front of the provider.
type WeatherService struct {
	client   client.WeatherClient
	geocoder Geocoder
	cache    cache.Cache
	ttl      time.Duration
	iconBase string
}

// NewWeatherService creates a WeatherService. ttl is the cache expiration for
// both current-weather and forecast entries. iconBase is the provider's icon
// image URL prefix.
func NewWeatherService(weatherClient client.WeatherClient, geocoder Geocoder, c cache.Cache, ttl time.Duration, iconBase string) *WeatherService {
	return &WeatherService{
		client:   weatherClient,
		geocoder: geocoder,
		cache:    c,
		ttl:      ttl,
		iconBase: iconBase,
	}
}

// loggerFromContext extracts a zap.Logger from request context if present.
func loggerFromContext(ctx context.Context) *zap.Logger {
	if v := ctx.Value("logger"); v != nil {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return nil
}

// GetCurrentWeather returns the provider's current-weather payload for the
// coordinates, verbatim, using the cache-aside pattern. Provider failure
// yields (nil, nil): one location's missing weather must not abort a batch.
func (s *WeatherService) GetCurrentWeather(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	key := cache.CurrentKey(lat, lon)
	logger := loggerFromContext(ctx)

	cached, ok, err := s.cache.Get(ctx, key)
	if err == nil && ok {
		observability.CacheHitsTotal.WithLabelValues("current").Inc()
		if logger != nil {
			logger.Debug("cache hit", zap.String("key", key))
		}
		return json.RawMessage(cached), nil
	}

	data, err := s.client.CurrentWeather(ctx, lat, lon)
	if err != nil {
		if logger != nil {
			logger.Warn("current weather fetch failed",
				zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		}
		return nil, nil
	}

	if setErr := s.cache.Set(ctx, key, data, s.ttl); setErr != nil && logger != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(setErr))
	}
	return data, nil
}

// GetForecast returns daily forecast summaries for the coordinates. The
// summarized form, not the raw provider body, is what gets cached. Provider
// failure yields (nil, nil).
func (s *WeatherService) GetForecast(ctx context.Context, lat, lon float64) ([]models.DailyForecast, error) {
	key := cache.ForecastKey(lat, lon)
	logger := loggerFromContext(ctx)

	cached, ok, err := s.cache.Get(ctx, key)
	if err == nil && ok {
		var days []models.DailyForecast
		if err := json.Unmarshal(cached, &days); err == nil {
			observability.CacheHitsTotal.WithLabelValues("forecast").Inc()
			return days, nil
		}
	}

	resp, err := s.client.Forecast(ctx, lat, lon)
	if err != nil {
		if logger != nil {
			logger.Warn("forecast fetch failed",
				zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		}
		return nil, nil
	}

	days := forecast.Summarize(resp.List)

	if raw, err := json.Marshal(days); err == nil {
		if setErr := s.cache.Set(ctx, key, raw, s.ttl); setErr != nil && logger != nil {
			logger.Warn("cache set failed", zap.String("key", key), zap.Error(setErr))
		}
	}
	return days, nil
}

// ResolveCitiesWeather looks up coordinates and current weather for each name
// concurrently. Failures are contained per name; the returned slice always has
// the same length and order as the input, matched case-insensitively.
func (s *WeatherService) ResolveCitiesWeather(ctx context.Context, names []string) []models.CityWeatherResult {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []models.CityWeatherResult
	)

	for _, name := range names {
		name := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := s.resolveCity(ctx, name)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Completion order is arbitrary; project results back onto the input order.
	byName := make(map[string]models.CityWeatherResult, len(results))
	for _, r := range results {
		byName[strings.ToLower(r.CityName)] = r
	}

	ordered := make([]models.CityWeatherResult, 0, len(names))
	for _, name := range names {
		if r, ok := byName[strings.ToLower(name)]; ok {
			ordered = append(ordered, r)
		} else {
			ordered = append(ordered, models.CityWeatherResult{
				CityName: name,
				Error:    "Processing failed unexpectedly",
			})
		}
	}
	return ordered
}

// resolveCity handles one name: geocode, then fetch current weather. Its own
// failures become an error result, never a panic or a batch failure.
func (s *WeatherService) resolveCity(ctx context.Context, name string) models.CityWeatherResult {
	observability.CityQueriesTotal.Inc()

	coords, err := s.geocoder.ResolveCoordinates(ctx, name)
	if err != nil {
		if logger := loggerFromContext(ctx); logger != nil {
			logger.Warn("city lookup failed", zap.String("city", name), zap.Error(err))
		}
		return models.CityWeatherResult{
			CityName: name,
			Error:    fmt.Sprintf("Failed to process %s: %v", name, err),
		}
	}

	result := models.CityWeatherResult{CityName: name, Coordinates: coords}
	if coords != nil {
		weather, _ := s.GetCurrentWeather(ctx, coords.Lat, coords.Lon)
		result.CurrentWeather = weather
	}
	return result
}

// currentPayload is the subset of the provider's current-weather body needed
// to build CityDetails.
type currentPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		ID          int    `json:"id"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// GetDetails combines location metadata and current conditions for one
// coordinate pair. Returns ErrNotFound when no current weather is available.
func (s *WeatherService) GetDetails(ctx context.Context, lat, lon float64) (*models.CityDetails, error) {
	raw, err := s.GetCurrentWeather(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}

	var payload currentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse current weather payload: %w", err)
	}

	details := &models.CityDetails{
		Location: models.LocationInfo{
			Name:    payload.Name,
			Country: payload.Sys.Country,
		},
		Current: models.CurrentInfo{
			TempC:      payload.Main.Temp,
			FeelsLikeC: payload.Main.FeelsLike,
			Humidity:   payload.Main.Humidity,
			WindMPS:    payload.Wind.Speed,
			Condition: models.ConditionInfo{
				Text:        "N/A",
				Description: "N/A",
			},
		},
	}
	if details.Location.Name == "" {
		details.Location.Name = "unknown location"
	}
	if details.Location.Country == "" {
		details.Location.Country = "N/A"
	}
	if len(payload.Weather) > 0 {
		w := payload.Weather[0]
		if w.Main != "" {
			details.Current.Condition.Text = w.Main
		}
		if w.Description != "" {
			details.Current.Condition.Description = w.Description
		}
		if w.Icon != "" {
			details.Current.Condition.Icon = s.iconBase + w.Icon + "@2x.png"
		}
		details.Current.Condition.Code = w.ID
	}
	return details, nil
}
