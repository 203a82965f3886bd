package models

import "time"

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AdministrativeLevels carries short and long names of the first two
// administrative subdivisions of a geocoding hit
type AdministrativeLevels struct {
	Level1Short string `json:"level1short,omitempty"`
	Level1Long  string `json:"level1long,omitempty"`
	Level2Short string `json:"level2short,omitempty"`
	Level2Long  string `json:"level2long,omitempty"`
}

// GeoResult is one geocoding hit. Latitude and Longitude are nil when the
// provider returned a match without usable coordinates.
type GeoResult struct {
	Latitude             *float64             `json:"latitude,omitempty"`
	Longitude            *float64             `json:"longitude,omitempty"`
	City                 string               `json:"city,omitempty"`
	Country              string               `json:"country,omitempty"`
	CountryCode          string               `json:"countryCode,omitempty"`
	State                string               `json:"state,omitempty"`
	FormattedAddress     string               `json:"formattedAddress,omitempty"`
	AdministrativeLevels AdministrativeLevels `json:"administrativeLevels"`
}

// ResolvedLocation is a geocoding hit with its timezone attached
type ResolvedLocation struct {
	Coordinates      Coordinates
	TimezoneID       string
	City             string
	Country          string
	CountryCode      string
	State            string
	FormattedAddress string
	Administrative   AdministrativeLevels
}

// PrayerTimeTable holds one string per schedule entry
type PrayerTimeTable struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Sunset  string `json:"sunset"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// PrayerInstantTable holds the raw UTC instant of each schedule entry
type PrayerInstantTable struct {
	Fajr    time.Time `json:"fajr"`
	Sunrise time.Time `json:"sunrise"`
	Dhuhr   time.Time `json:"dhuhr"`
	Asr     time.Time `json:"asr"`
	Sunset  time.Time `json:"sunset"`
	Maghrib time.Time `json:"maghrib"`
	Isha    time.Time `json:"isha"`
}

// PrayerTimesResponse is the body of a successful prayer-times request
type PrayerTimesResponse struct {
	StatusString             string             `json:"status_string"`
	LocationString           string             `json:"location_string"`
	Country                  string             `json:"country"`
	CountryCode              string             `json:"country_code"`
	City                     string             `json:"city"`
	Region                   string             `json:"region"`
	LocalTime                string             `json:"local_time"`
	LocalTimezone            string             `json:"local_timezone"`
	LocalTimezoneID          string             `json:"local_timezone_id"`
	Coordinates              Coordinates        `json:"coordinates"`
	Times                    PrayerTimeTable    `json:"times"`
	TimesInUTC               PrayerInstantTable `json:"times_in_utc"`
	TimesLeft                PrayerTimeTable    `json:"times_left"`
	CurrentPrayer            string             `json:"current_prayer"`
	UpcomingPrayer           string             `json:"upcoming_prayer"`
	CurrentPrayerTimeElapsed string             `json:"current_prayer_time_elapsed"`
	UpcomingPrayerTimeLeft   string             `json:"upcoming_prayer_time_left"`
}

type HealthCheck struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Uptime    string         `json:"uptime"`
	Caches    map[string]int `json:"caches,omitempty"`
}

// ErrorResponse is written for failed requests: client errors carry a
// Description, server errors a Message
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
}
