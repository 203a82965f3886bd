package timezone

import "testing"

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"london", 51.5074, -0.1278, false},
		{"poles", 90, 180, false},
		{"latitude too high", 91, 0, true},
		{"longitude too low", 0, -181, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lon)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinates(%v, %v) error = %v, wantErr %v", tt.lat, tt.lon, err, tt.wantErr)
			}
		})
	}
}

func TestLookup_TimezoneIDsFor(t *testing.T) {
	lookup, err := NewLookup()
	if err != nil {
		t.Fatalf("NewLookup() error = %v", err)
	}

	tests := []struct {
		name string
		lat  float64
		lon  float64
		want string
	}{
		{"london", 51.5074, -0.1278, "Europe/London"},
		{"new york", 40.7128, -74.0060, "America/New_York"},
		{"mecca", 21.4225, 39.8262, "Asia/Riyadh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := lookup.TimezoneIDsFor(tt.lat, tt.lon)
			if len(ids) == 0 {
				t.Fatalf("TimezoneIDsFor(%v, %v) returned no zones", tt.lat, tt.lon)
			}
			if ids[0] != tt.want {
				t.Errorf("TimezoneIDsFor(%v, %v) = %v, want %s", tt.lat, tt.lon, ids, tt.want)
			}
		})
	}

	if ids := lookup.TimezoneIDsFor(123, 0); ids != nil {
		t.Errorf("TimezoneIDsFor(invalid) = %v, want nil", ids)
	}
}
