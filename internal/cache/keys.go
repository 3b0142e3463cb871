package cache

import "strconv"

// CurrentKey returns the cache key for a current-weather lookup at the given
// coordinates. Float formatting is stable (shortest round-trip form) so the
// same coordinates always map to the same key.
func CurrentKey(lat, lon float64) string {
	return "current_" + formatCoord(lat) + "_" + formatCoord(lon)
}

// ForecastKey returns the cache key for a forecast lookup at the given coordinates.
func ForecastKey(lat, lon float64) string {
	return "forecast_" + formatCoord(lat) + "_" + formatCoord(lon)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
