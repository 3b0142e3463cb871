package models

import (
	"encoding/json"
	"time"
)

// Coordinates is a resolved latitude/longitude pair for a place.
// Immutable once returned by the geocoder.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DailyForecast is one calendar day summarized from the provider's 3-hourly samples.
type DailyForecast struct {
	Date      string  `json:"date"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon"`
}

// CityWeatherResult is the per-city slot in a batch lookup. CurrentWeather carries
// the provider payload verbatim. Exactly one of CurrentWeather or Error is set when
// Coordinates resolved; both CurrentWeather and Coordinates are nil when resolution failed.
type CityWeatherResult struct {
	CityName       string          `json:"cityName"`
	Coordinates    *Coordinates    `json:"coordinates,omitempty"`
	CurrentWeather json.RawMessage `json:"currentWeather,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// CityDetails combines location metadata with current conditions for one coordinate pair.
type CityDetails struct {
	Location LocationInfo `json:"location"`
	Current  CurrentInfo  `json:"current"`
}

type LocationInfo struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type CurrentInfo struct {
	TempC      float64       `json:"temp_c"`
	FeelsLikeC float64       `json:"feelslike_c"`
	Humidity   int           `json:"humidity"`
	Condition  ConditionInfo `json:"condition"`
	WindMPS    float64       `json:"wind_mps"`
}

type ConditionInfo struct {
	Text        string `json:"text"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Code        int    `json:"code"`
}

// User is a stored credential record. Usernames are trimmed and lowercased
// before persistence so lookups are case-insensitive.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
