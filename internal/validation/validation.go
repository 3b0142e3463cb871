package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// ErrNamesEmpty is returned when the names parameter is empty or whitespace-only.
var ErrNamesEmpty = errors.New("query parameter \"names\" is required")

// ErrNameInvalidChars is returned when a city name contains disallowed characters.
var ErrNameInvalidChars = errors.New("city name contains invalid characters")

// ErrNameTooLong is returned when a city name exceeds the maximum length.
var ErrNameTooLong = errors.New("city name too long")

// ErrCoordinatesInvalid is returned for missing, non-numeric, or out-of-range coordinates.
var ErrCoordinatesInvalid = errors.New("invalid or missing coordinates")

// ErrCredentialsMissing is returned when username or password is absent.
var ErrCredentialsMissing = errors.New("username and password are required")

const maxCityNameLength = 80

// ParseCityNames splits a comma-separated names parameter, trims each entry,
// and validates characters: letters (Unicode), digits, space, comma excluded
// by the split, hyphen, period, apostrophe. Empty entries are dropped.
func ParseCityNames(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNamesEmpty
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		r := []rune(name)
		if len(r) > maxCityNameLength {
			return nil, ErrNameTooLong
		}
		for _, c := range r {
			if !isAllowedCityRune(c) {
				return nil, ErrNameInvalidChars
			}
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, ErrNamesEmpty
	}
	return names, nil
}

// isAllowedCityRune returns true for letters (Unicode), digits, space, hyphen,
// period, apostrophe.
func isAllowedCityRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', '-', '.', '\'':
		return true
	}
	return false
}

// ParseCoordinates parses lat/lon query values and enforces valid ranges.
// Rejection happens before any remote call is attempted.
func ParseCoordinates(latStr, lonStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, ErrCoordinatesInvalid
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, ErrCoordinatesInvalid
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, ErrCoordinatesInvalid
	}
	return lat, lon, nil
}

// ValidateCredentials checks that username and password are present.
// Password strength rules live in the auth service.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return ErrCredentialsMissing
	}
	return nil
}
