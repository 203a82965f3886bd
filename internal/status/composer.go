// Package status turns a resolved schedule and location into the
// human-facing status sentence and response payload.
package status

import (
	"fmt"

	"github.com/dalfonso89/prayer-times-api/internal/models"
	"github.com/dalfonso89/prayer-times-api/internal/schedule"
	"github.com/dalfonso89/prayer-times-api/internal/timezone"
)

// Sentence renders "It's currently {Active}. {Next} in {countdown}.".
// With highlight set both labels are wrapped in markdown bold markers.
func Sentence(active, next schedule.Prayer, countdown string, highlight bool) string {
	activeLabel, nextLabel := active.Title(), next.Title()
	if highlight {
		activeLabel = "**" + activeLabel + "**"
		nextLabel = "**" + nextLabel + "**"
	}
	return fmt.Sprintf("It's currently %s. %s in %s.", activeLabel, nextLabel, countdown)
}

// Region picks the display region: short administrative name, then state,
// then long administrative name.
func Region(location models.ResolvedLocation) string {
	switch {
	case location.Administrative.Level1Short != "":
		return location.Administrative.Level1Short
	case location.State != "":
		return location.State
	case location.Administrative.Level1Long != "":
		return location.Administrative.Level1Long
	}
	return ""
}

// Compose builds the full response for location from resolver.
func Compose(location models.ResolvedLocation, resolver *schedule.Resolver, highlight bool) models.PrayerTimesResponse {
	view := resolver.View()
	now := resolver.Now()
	zoneID := location.TimezoneID
	utc := resolver.Instants().UTC()

	return models.PrayerTimesResponse{
		StatusString:    Sentence(view.Active, view.Next, view.NextLeft, highlight),
		LocationString:  location.FormattedAddress,
		Country:         location.Country,
		CountryCode:     location.CountryCode,
		City:            location.City,
		Region:          Region(location),
		LocalTime:       timezone.FormatClock(timezone.ToLocalWallClock(now, zoneID)),
		LocalTimezone:   timezone.ZoneDisplayName(zoneID, now),
		LocalTimezoneID: zoneID,
		Coordinates:     location.Coordinates,
		Times:           table(view.Times),
		TimesInUTC: models.PrayerInstantTable{
			Fajr:    utc.Fajr,
			Sunrise: utc.Sunrise,
			Dhuhr:   utc.Dhuhr,
			Asr:     utc.Asr,
			Sunset:  utc.Sunset,
			Maghrib: utc.Maghrib,
			Isha:    utc.Isha,
		},
		TimesLeft:                table(view.TimesLeft),
		CurrentPrayer:            string(view.Active),
		UpcomingPrayer:           string(view.Next),
		CurrentPrayerTimeElapsed: view.ActiveElapsed,
		UpcomingPrayerTimeLeft:   view.NextLeft,
	}
}

func table(values map[schedule.Prayer]string) models.PrayerTimeTable {
	return models.PrayerTimeTable{
		Fajr:    values[schedule.Fajr],
		Sunrise: values[schedule.Sunrise],
		Dhuhr:   values[schedule.Dhuhr],
		Asr:     values[schedule.Asr],
		Sunset:  values[schedule.Sunset],
		Maghrib: values[schedule.Maghrib],
		Isha:    values[schedule.Isha],
	}
}
