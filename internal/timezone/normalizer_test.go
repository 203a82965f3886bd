package timezone

import (
	"testing"
	"time"
)

func TestToLocalWallClock(t *testing.T) {
	instant := time.Date(2026, 1, 15, 17, 30, 0, 0, time.UTC)

	tests := []struct {
		zone     string
		wantHour int
		wantAbbr string
	}{
		{"America/New_York", 12, "EST"},
		{"Europe/London", 17, "GMT"},
		{"Asia/Kolkata", 23, "IST"},
		{"Australia/Sydney", 4, "AEDT"},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			local := ToLocalWallClock(instant, tt.zone)
			if local.Time.Hour() != tt.wantHour {
				t.Errorf("hour = %d, want %d", local.Time.Hour(), tt.wantHour)
			}
			if local.Abbreviation != tt.wantAbbr {
				t.Errorf("abbreviation = %q, want %q", local.Abbreviation, tt.wantAbbr)
			}
			if !local.Time.Equal(instant) {
				t.Errorf("wall clock changed the instant: %v vs %v", local.Time, instant)
			}
		})
	}
}

func TestToLocalWallClock_InvalidZoneFallsBackToUTC(t *testing.T) {
	instant := time.Date(2026, 1, 15, 17, 30, 0, 0, time.UTC)
	local := ToLocalWallClock(instant, "Mars/Olympus_Mons")
	if local.Time.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", local.Time.Location())
	}
	if local.ZoneID != "Mars/Olympus_Mons" {
		t.Errorf("ZoneID = %q", local.ZoneID)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name    string
		instant time.Time
		zone    string
		want    string
	}{
		{"morning", time.Date(2026, 6, 1, 4, 7, 0, 0, time.UTC), "Europe/London", "5:07 AM"},
		{"afternoon", time.Date(2026, 6, 1, 17, 45, 0, 0, time.UTC), "America/New_York", "1:45 PM"},
		{"midnight", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), "UTC", "12:00 AM"},
		{"noon", time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), "UTC", "12:00 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := ToLocalWallClock(tt.instant, tt.zone)
			first := FormatClock(local)
			if first != tt.want {
				t.Errorf("FormatClock() = %q, want %q", first, tt.want)
			}
			if second := FormatClock(ToLocalWallClock(tt.instant, tt.zone)); second != first {
				t.Errorf("FormatClock() not idempotent: %q then %q", first, second)
			}
		})
	}
}

func TestZoneDisplayName(t *testing.T) {
	winter := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	summer := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		zone      string
		reference time.Time
		want      string
	}{
		{"new york winter", "America/New_York", winter, "Eastern Standard Time"},
		{"new york summer", "America/New_York", summer, "Eastern Daylight Time"},
		{"london winter", "Europe/London", winter, "Greenwich Mean Time"},
		{"london summer", "Europe/London", summer, "British Summer Time"},
		{"kolkata", "Asia/Kolkata", winter, "India Standard Time"},
		{"dublin summer", "Europe/Dublin", summer, "Irish Standard Time"},
		{"riyadh numeric abbreviation", "Asia/Riyadh", winter, "Arabian Standard Time"},
		{"utc", "UTC", winter, "Coordinated Universal Time"},
		{"invalid zone", "Not/AZone", winter, UnknownZoneName},
		{"numeric abbreviation without name", "America/Bogota", winter, UnknownZoneName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ZoneDisplayName(tt.zone, tt.reference); got != tt.want {
				t.Errorf("ZoneDisplayName(%q) = %q, want %q", tt.zone, got, tt.want)
			}
		})
	}
}

func TestLocation_CachesLoadedZones(t *testing.T) {
	first, err := Location("Asia/Tokyo")
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	second, err := Location("Asia/Tokyo")
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if first != second {
		t.Error("Location() returned a different pointer for a cached zone")
	}
	if _, err := Location("Nope/Nowhere"); err == nil {
		t.Error("Location() expected error for unknown zone")
	}
}
