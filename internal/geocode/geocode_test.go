package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 5*time.Second), server
}

// TestResolveCoordinates_FirstCityWins verifies that non-city entries are
// skipped and the first city-typed result supplies the coordinates.
func TestResolveCoordinates_FirstCityWins(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Monterrey" {
			t.Errorf("query q = %q, want Monterrey", got)
		}
		w.Write([]byte(`[
			{"result_type": "terminal", "lat": 1.0, "long": 2.0},
			{"result_type": "city", "lat": 25.6866, "long": -100.3161},
			{"result_type": "city", "lat": 99.0, "long": 99.0}
		]`))
	})
	defer server.Close()

	coords, err := client.ResolveCoordinates(context.Background(), "Monterrey")
	if err != nil {
		t.Fatalf("ResolveCoordinates() error = %v", err)
	}
	if coords == nil {
		t.Fatal("ResolveCoordinates() = nil, want coordinates")
	}
	if coords.Lat != 25.6866 || coords.Lon != -100.3161 {
		t.Errorf("coordinates = (%v, %v), want (25.6866, -100.3161)", coords.Lat, coords.Lon)
	}
}

// TestResolveCoordinates_StringCoords verifies that quoted lat/long values
// decode like numeric ones.
func TestResolveCoordinates_StringCoords(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"result_type": "city", "lat": "19.4326", "long": "-99.1332"}]`))
	})
	defer server.Close()

	coords, err := client.ResolveCoordinates(context.Background(), "CDMX")
	if err != nil {
		t.Fatalf("ResolveCoordinates() error = %v", err)
	}
	if coords == nil {
		t.Fatal("ResolveCoordinates() = nil, want coordinates")
	}
	if coords.Lat != 19.4326 || coords.Lon != -99.1332 {
		t.Errorf("coordinates = (%v, %v), want (19.4326, -99.1332)", coords.Lat, coords.Lon)
	}
}

// TestResolveCoordinates_NoCityMatch verifies that a response without any
// city-typed entry resolves to (nil, nil) rather than an error.
func TestResolveCoordinates_NoCityMatch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty list", `[]`},
		{"only non-city results", `[{"result_type": "terminal", "lat": 1.0, "long": 2.0}]`},
		{"city without coordinates", `[{"result_type": "city", "lat": null, "long": null}]`},
		{"city with unparseable coordinates", `[{"result_type": "city", "lat": "abc", "long": "def"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			defer server.Close()

			coords, err := client.ResolveCoordinates(context.Background(), "nowhere")
			if err != nil {
				t.Fatalf("ResolveCoordinates() error = %v, want nil", err)
			}
			if coords != nil {
				t.Errorf("ResolveCoordinates() = %+v, want nil", coords)
			}
		})
	}
}

// TestResolveCoordinates_ServerError verifies that a non-2xx response is an
// ErrLookupFailed, distinct from the no-match case.
func TestResolveCoordinates_ServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.ResolveCoordinates(context.Background(), "Monterrey")
	if !errors.Is(err, ErrLookupFailed) {
		t.Errorf("ResolveCoordinates() error = %v, want ErrLookupFailed", err)
	}
}

// TestResolveCoordinates_NetworkError verifies that an unreachable endpoint is
// an ErrLookupFailed.
func TestResolveCoordinates_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client := NewClient(server.URL, time.Second)

	_, err := client.ResolveCoordinates(context.Background(), "Monterrey")
	if !errors.Is(err, ErrLookupFailed) {
		t.Errorf("ResolveCoordinates() error = %v, want ErrLookupFailed", err)
	}
}

// TestFlexCoord covers the coordinate decoding forms seen in the places API.
func TestFlexCoord(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue float64
		wantValid bool
	}{
		{"number", `25.6866`, 25.6866, true},
		{"quoted number", `"-100.3161"`, -100.3161, true},
		{"null", `null`, 0, false},
		{"non-numeric string", `"patagonia"`, 0, false},
		{"empty string", `""`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexCoord
			if err := f.UnmarshalJSON([]byte(tt.input)); err != nil {
				t.Fatalf("UnmarshalJSON(%s) error = %v", tt.input, err)
			}
			if f.valid != tt.wantValid {
				t.Fatalf("valid = %v, want %v", f.valid, tt.wantValid)
			}
			if tt.wantValid && f.value != tt.wantValue {
				t.Errorf("value = %v, want %v", f.value, tt.wantValue)
			}
		})
	}
}
