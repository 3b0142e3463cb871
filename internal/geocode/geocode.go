package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/models"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/observability"
)

// ErrLookupFailed is returned when the geocoding request itself fails
// (network error or non-2xx response). A name with no city match is not an
// error; ResolveCoordinates returns (nil, nil) for that case.
var ErrLookupFailed = errors.New("geocoding lookup failed")

// Client resolves free-text place names to coordinates via the Reservamos
// places search API.
type Client struct {
	apiURL string
	client *http.Client
}

// NewClient creates a geocoding client for the given search endpoint.
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
	}
}

// placeResult is one entry of the search response. lat/long arrive as either
// JSON numbers or strings depending on the place kind.
type placeResult struct {
	ResultType string    `json:"result_type"`
	Lat        flexCoord `json:"lat"`
	Long       flexCoord `json:"long"`
}

// flexCoord decodes a coordinate that may be a JSON number, a quoted number,
// or null/absent.
type flexCoord struct {
	value float64
	valid bool
}

func (f *flexCoord) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	unquoted := s
	if len(s) >= 2 && s[0] == '"' {
		var err error
		unquoted, err = strconv.Unquote(s)
		if err != nil {
			return nil
		}
	}
	v, err := strconv.ParseFloat(unquoted, 64)
	if err != nil {
		// Unparseable coordinates are treated as absent, not as a decode failure.
		return nil
	}
	f.value = v
	f.valid = true
	return nil
}

// ResolveCoordinates searches for the name and returns the coordinates of the
// first result whose type is "city". Administrative regions, addresses and
// points of interest are ignored. Returns (nil, nil) when no city matches or
// the matched entry lacks usable coordinates.
func (c *Client) ResolveCoordinates(ctx context.Context, name string) (*models.Coordinates, error) {
	start := time.Now()

	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid geocoding URL: %w", err)
	}
	params := url.Values{}
	params.Set("q", name)
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		observability.GeocodingCallsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.GeocodingCallsTotal.WithLabelValues("error").Inc()
		observability.GeocodingDuration.WithLabelValues("error").Observe(duration)
		return nil, fmt.Errorf("%w: HTTP %d", ErrLookupFailed, resp.StatusCode)
	}
	observability.GeocodingCallsTotal.WithLabelValues("success").Inc()
	observability.GeocodingDuration.WithLabelValues("success").Observe(duration)

	var places []placeResult
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrLookupFailed, err)
	}

	for _, place := range places {
		if place.ResultType != "city" {
			continue
		}
		if !place.Lat.valid || !place.Long.valid {
			return nil, nil
		}
		return &models.Coordinates{Lat: place.Lat.value, Lon: place.Long.value}, nil
	}
	return nil, nil
}
