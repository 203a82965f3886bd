package schedule

import (
	"fmt"
	"time"

	"github.com/dalfonso89/prayer-times-api/internal/timezone"
)

const (
	msPerMinute = int64(time.Minute / time.Millisecond)
	msPerHour   = int64(time.Hour / time.Millisecond)
	msPerDay    = 24 * msPerHour
)

// Resolver evaluates one day's instants against "now" in a single zone.
// Every instant, including now, is converted to the zone before comparison.
type Resolver struct {
	zoneID   string
	instants Instants
	now      time.Time
}

// View is the read-only projection handed to the status composer.
type View struct {
	Times         map[Prayer]string
	TimesLeft     map[Prayer]string
	Active        Prayer
	Next          Prayer
	ActiveElapsed string
	NextLeft      string
}

// NewResolver zones instants and now into zoneID.
func NewResolver(instants Instants, zoneID string, now time.Time) *Resolver {
	zonedNow := timezone.ToLocalWallClock(now, zoneID).Time
	return &Resolver{
		zoneID:   zoneID,
		instants: instants.In(zonedNow.Location()),
		now:      zonedNow,
	}
}

// Now returns the zoned evaluation instant.
func (r *Resolver) Now() time.Time {
	return r.now
}

// Instants returns the zoned instants.
func (r *Resolver) Instants() Instants {
	return r.instants
}

// CountdownDuration returns the time until instant, treating an instant
// that already passed as tomorrow's occurrence. The result is in [0, 24h).
func (r *Resolver) CountdownDuration(instant time.Time) time.Duration {
	diff := r.zoned(instant).UnixMilli() - r.now.UnixMilli()
	if diff < 0 {
		diff += msPerDay
	}
	return time.Duration(diff) * time.Millisecond
}

// Countdown formats CountdownDuration, e.g. "3h 0m" or "12m".
func (r *Resolver) Countdown(instant time.Time) string {
	return FormatDuration(r.CountdownDuration(instant).Milliseconds())
}

// Elapsed formats the absolute distance between now and instant.
func (r *Resolver) Elapsed(instant time.Time) string {
	diff := r.now.UnixMilli() - r.zoned(instant).UnixMilli()
	if diff < 0 {
		diff = -diff
	}
	return FormatDuration(diff)
}

// ActivePrayer returns the prayer whose half-open interval contains now.
// Before fajr and from isha onwards the active prayer is isha.
func (r *Resolver) ActivePrayer() Prayer {
	if r.now.Before(r.instants.Fajr) {
		return Isha
	}
	active := Isha
	for i, p := range Canonical {
		if r.now.Before(r.instants.Get(p)) {
			return Canonical[i-1]
		}
		active = p
	}
	return active
}

// NextPrayer returns the first canonical prayer strictly after now,
// wrapping to fajr once isha has started.
func (r *Resolver) NextPrayer() Prayer {
	for _, p := range Canonical {
		if r.instants.Get(p).After(r.now) {
			return p
		}
	}
	return Fajr
}

// ActiveElapsed returns the time since the active prayer's most recent
// occurrence. Isha before fajr is measured from the previous evening.
func (r *Resolver) ActiveElapsed() string {
	start := r.instants.Get(r.ActivePrayer()).UnixMilli()
	diff := r.now.UnixMilli() - start
	if diff < 0 {
		diff += msPerDay
	}
	return FormatDuration(diff)
}

// View computes the full projection for the schedule.
func (r *Resolver) View() View {
	view := View{
		Times:     make(map[Prayer]string, len(All)),
		TimesLeft: make(map[Prayer]string, len(All)),
		Active:    r.ActivePrayer(),
		Next:      r.NextPrayer(),
	}
	for _, p := range All {
		instant := r.instants.Get(p)
		view.Times[p] = timezone.FormatClock(timezone.ToLocalWallClock(instant, r.zoneID))
		view.TimesLeft[p] = r.Countdown(instant)
	}
	view.ActiveElapsed = r.ActiveElapsed()
	view.NextLeft = view.TimesLeft[view.Next]
	return view
}

func (r *Resolver) zoned(instant time.Time) time.Time {
	return instant.In(r.now.Location())
}

// FormatDuration renders milliseconds as "{H}h {M}m", eliding a zero hour.
// Negative input renders as "0m".
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
