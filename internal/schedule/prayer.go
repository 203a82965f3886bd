// Package schedule derives the zoned daily prayer schedule and the
// active/next prayer status from raw UTC prayer instants.
package schedule

import (
	"strings"
	"time"
)

// Prayer names one entry of the daily schedule.
type Prayer string

const (
	Fajr    Prayer = "fajr"
	Sunrise Prayer = "sunrise"
	Dhuhr   Prayer = "dhuhr"
	Asr     Prayer = "asr"
	Sunset  Prayer = "sunset"
	Maghrib Prayer = "maghrib"
	Isha    Prayer = "isha"
)

// Canonical lists the five prayers that can be active or next, in
// chronological order. Sunrise and sunset are schedule markers only.
var Canonical = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

// All lists every schedule entry in chronological order.
var All = []Prayer{Fajr, Sunrise, Dhuhr, Asr, Sunset, Maghrib, Isha}

// Title returns the capitalized label, e.g. "Maghrib".
func (p Prayer) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// Instants holds the absolute time of each schedule entry for one local day.
type Instants struct {
	Fajr    time.Time
	Sunrise time.Time
	Dhuhr   time.Time
	Asr     time.Time
	Sunset  time.Time
	Maghrib time.Time
	Isha    time.Time
}

// Get returns the instant for p.
func (i Instants) Get(p Prayer) time.Time {
	switch p {
	case Fajr:
		return i.Fajr
	case Sunrise:
		return i.Sunrise
	case Dhuhr:
		return i.Dhuhr
	case Asr:
		return i.Asr
	case Sunset:
		return i.Sunset
	case Maghrib:
		return i.Maghrib
	case Isha:
		return i.Isha
	}
	return time.Time{}
}

// In returns a copy with every instant expressed in loc.
func (i Instants) In(loc *time.Location) Instants {
	return Instants{
		Fajr:    i.Fajr.In(loc),
		Sunrise: i.Sunrise.In(loc),
		Dhuhr:   i.Dhuhr.In(loc),
		Asr:     i.Asr.In(loc),
		Sunset:  i.Sunset.In(loc),
		Maghrib: i.Maghrib.In(loc),
		Isha:    i.Isha.In(loc),
	}
}

// UTC returns a copy with every instant expressed in UTC.
func (i Instants) UTC() Instants {
	return i.In(time.UTC)
}

// AdjustAsr returns a copy whose asr is the midpoint of dhuhr and sunset,
// computed in whole milliseconds.
func AdjustAsr(i Instants) Instants {
	dhuhr := i.Dhuhr.UnixMilli()
	sunset := i.Sunset.UnixMilli()
	i.Asr = time.UnixMilli(dhuhr + (sunset-dhuhr)/2).UTC()
	return i
}
