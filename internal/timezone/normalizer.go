// Package timezone converts instants into zoned wall-clock values and
// resolves IANA zone ids for coordinates.
package timezone

import (
	"sync"
	"time"

	// Embedded zoneinfo so zone ids resolve on hosts without tzdata.
	_ "time/tzdata"
)

// ClockLayout renders wall-clock times as "h:mm a".
const ClockLayout = "3:04 PM"

// UnknownZoneName is reported when no long-form name exists for a zone.
const UnknownZoneName = "Unknown Timezone"

// LocalWallClock is an instant reinterpreted in a target zone.
type LocalWallClock struct {
	Time          time.Time
	ZoneID        string
	Abbreviation  string
	OffsetSeconds int
}

var locations sync.Map // zone id -> *time.Location

// Location returns the *time.Location for zoneID, caching successful loads.
func Location(zoneID string) (*time.Location, error) {
	if cached, ok := locations.Load(zoneID); ok {
		return cached.(*time.Location), nil
	}
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return nil, err
	}
	locations.Store(zoneID, loc)
	return loc, nil
}

// ToLocalWallClock converts instant into zoneID's wall clock. Zone ids are
// validated upstream; one that fails to load is rendered in UTC.
func ToLocalWallClock(instant time.Time, zoneID string) LocalWallClock {
	loc, err := Location(zoneID)
	if err != nil {
		loc = time.UTC
	}
	local := instant.In(loc)
	abbreviation, offset := local.Zone()
	return LocalWallClock{
		Time:          local,
		ZoneID:        zoneID,
		Abbreviation:  abbreviation,
		OffsetSeconds: offset,
	}
}

// FormatClock formats a wall clock as "h:mm a", e.g. "5:07 AM".
func FormatClock(local LocalWallClock) string {
	return local.Time.Format(ClockLayout)
}

// ZoneDisplayName returns the long-form name of zoneID in effect at
// reference, e.g. "Eastern Standard Time" or "Eastern Daylight Time".
func ZoneDisplayName(zoneID string, reference time.Time) string {
	loc, err := Location(zoneID)
	if err != nil {
		return UnknownZoneName
	}
	if name, ok := zoneNames[zoneID]; ok {
		return name
	}
	abbreviation, _ := reference.In(loc).Zone()
	if abbreviation == "IST" && zoneID == "Europe/Dublin" {
		return "Irish Standard Time"
	}
	if name, ok := abbreviationNames[abbreviation]; ok {
		return name
	}
	return UnknownZoneName
}

// zoneNames covers zones without DST whose tzdata abbreviation is numeric.
var zoneNames = map[string]string{
	"Asia/Riyadh":       "Arabian Standard Time",
	"Asia/Kuwait":       "Arabian Standard Time",
	"Asia/Qatar":        "Arabian Standard Time",
	"Asia/Bahrain":      "Arabian Standard Time",
	"Asia/Baghdad":      "Arabian Standard Time",
	"Asia/Aden":         "Arabian Standard Time",
	"Asia/Dubai":        "Gulf Standard Time",
	"Asia/Muscat":       "Gulf Standard Time",
	"Asia/Tehran":       "Iran Standard Time",
	"Asia/Kabul":        "Afghanistan Time",
	"Asia/Tashkent":     "Uzbekistan Time",
	"Asia/Dhaka":        "Bangladesh Standard Time",
	"Asia/Kuala_Lumpur": "Malaysia Time",
	"Asia/Singapore":    "Singapore Standard Time",
	"Asia/Brunei":       "Brunei Darussalam Time",
	"Asia/Colombo":      "India Standard Time",
	"Asia/Kathmandu":    "Nepal Time",
	"Asia/Baku":         "Azerbaijan Standard Time",
	"Europe/Istanbul":   "Turkey Time",
	"Indian/Maldives":   "Maldives Time",
	"America/Sao_Paulo": "Brasilia Standard Time",
}

var abbreviationNames = map[string]string{
	"UTC":  "Coordinated Universal Time",
	"GMT":  "Greenwich Mean Time",
	"BST":  "British Summer Time",
	"WET":  "Western European Standard Time",
	"WEST": "Western European Summer Time",
	"CET":  "Central European Standard Time",
	"CEST": "Central European Summer Time",
	"EET":  "Eastern European Standard Time",
	"EEST": "Eastern European Summer Time",
	"MSK":  "Moscow Standard Time",
	"EST":  "Eastern Standard Time",
	"EDT":  "Eastern Daylight Time",
	"CST":  "Central Standard Time",
	"CDT":  "Central Daylight Time",
	"MST":  "Mountain Standard Time",
	"MDT":  "Mountain Daylight Time",
	"PST":  "Pacific Standard Time",
	"PDT":  "Pacific Daylight Time",
	"AKST": "Alaska Standard Time",
	"AKDT": "Alaska Daylight Time",
	"HST":  "Hawaii-Aleutian Standard Time",
	"AST":  "Atlantic Standard Time",
	"ADT":  "Atlantic Daylight Time",
	"NST":  "Newfoundland Standard Time",
	"NDT":  "Newfoundland Daylight Time",
	"IST":  "India Standard Time",
	"PKT":  "Pakistan Standard Time",
	"WIB":  "Western Indonesia Time",
	"WITA": "Central Indonesia Time",
	"WIT":  "Eastern Indonesia Time",
	"HKT":  "Hong Kong Standard Time",
	"PHT":  "Philippine Standard Time",
	"JST":  "Japan Standard Time",
	"KST":  "Korean Standard Time",
	"AEST": "Australian Eastern Standard Time",
	"AEDT": "Australian Eastern Daylight Time",
	"ACST": "Australian Central Standard Time",
	"ACDT": "Australian Central Daylight Time",
	"AWST": "Australian Western Standard Time",
	"NZST": "New Zealand Standard Time",
	"NZDT": "New Zealand Daylight Time",
	"SAST": "South Africa Standard Time",
	"WAT":  "West Africa Standard Time",
	"CAT":  "Central Africa Time",
	"EAT":  "East Africa Time",
}
