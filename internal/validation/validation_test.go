package validation

import (
	"errors"
	"reflect"
	"testing"
)

// TestParseCityNames covers splitting, trimming and the character allowlist.
func TestParseCityNames(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr error
	}{
		{
			name: "single name",
			raw:  "Monterrey",
			want: []string{"Monterrey"},
		},
		{
			name: "multiple names trimmed",
			raw:  " Monterrey , Guadalajara ,Cancun",
			want: []string{"Monterrey", "Guadalajara", "Cancun"},
		},
		{
			name: "empty entries dropped",
			raw:  "Monterrey,,  ,Cancun",
			want: []string{"Monterrey", "Cancun"},
		},
		{
			name: "accents hyphens periods apostrophes",
			raw:  "Mérida,Val-d'Or,St. Louis",
			want: []string{"Mérida", "Val-d'Or", "St. Louis"},
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: ErrNamesEmpty,
		},
		{
			name:    "whitespace only",
			raw:     "   ",
			wantErr: ErrNamesEmpty,
		},
		{
			name:    "commas only",
			raw:     ", ,",
			wantErr: ErrNamesEmpty,
		},
		{
			name:    "injection characters rejected",
			raw:     "Monterrey;DROP TABLE users",
			wantErr: ErrNameInvalidChars,
		},
		{
			name:    "angle brackets rejected",
			raw:     "<script>",
			wantErr: ErrNameInvalidChars,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCityNames(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseCityNames(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr == nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCityNames(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// TestParseCityNames_TooLong verifies the per-name length cap.
func TestParseCityNames_TooLong(t *testing.T) {
	long := make([]rune, maxCityNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := ParseCityNames(string(long))
	if !errors.Is(err, ErrNameTooLong) {
		t.Errorf("ParseCityNames(long) error = %v, want ErrNameTooLong", err)
	}
}

// TestParseCoordinates covers numeric parsing and range enforcement.
func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lon     string
		wantLat float64
		wantLon float64
		wantErr bool
	}{
		{"valid", "25.6866", "-100.3161", 25.6866, -100.3161, false},
		{"bounds", "90", "-180", 90, -180, false},
		{"trimmed", " 10 ", " 20 ", 10, 20, false},
		{"missing lat", "", "-100", 0, 0, true},
		{"non-numeric", "abc", "-100", 0, 0, true},
		{"lat out of range", "90.1", "0", 0, 0, true},
		{"lon out of range", "0", "180.1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, err := ParseCoordinates(tt.lat, tt.lon)
			if tt.wantErr {
				if !errors.Is(err, ErrCoordinatesInvalid) {
					t.Fatalf("ParseCoordinates(%q, %q) error = %v, want ErrCoordinatesInvalid", tt.lat, tt.lon, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCoordinates(%q, %q) error = %v", tt.lat, tt.lon, err)
			}
			if lat != tt.wantLat || lon != tt.wantLon {
				t.Errorf("ParseCoordinates(%q, %q) = (%v, %v), want (%v, %v)",
					tt.lat, tt.lon, lat, lon, tt.wantLat, tt.wantLon)
			}
		})
	}
}

// TestValidateCredentials verifies presence checks for username and password.
func TestValidateCredentials(t *testing.T) {
	if err := ValidateCredentials("frodo", "precious1"); err != nil {
		t.Errorf("ValidateCredentials() error = %v, want nil", err)
	}
	for _, tt := range []struct{ username, password string }{
		{"", "precious1"},
		{"   ", "precious1"},
		{"frodo", ""},
	} {
		if err := ValidateCredentials(tt.username, tt.password); !errors.Is(err, ErrCredentialsMissing) {
			t.Errorf("ValidateCredentials(%q, %q) error = %v, want ErrCredentialsMissing",
				tt.username, tt.password, err)
		}
	}
}
