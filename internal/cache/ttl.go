package cache

import (
	"fmt"
	"strings"
	"time"
)

// TTL is a route cache lifetime expressed as an amount and a unit.
type TTL struct {
	Amount int
	Unit   string
}

// Duration normalizes the TTL. Unknown units are an error.
func (t TTL) Duration() (time.Duration, error) {
	unit, err := parseUnit(t.Unit)
	if err != nil {
		return 0, err
	}
	if t.Amount < 0 {
		return 0, fmt.Errorf("cache ttl must not be negative: %d", t.Amount)
	}
	return time.Duration(t.Amount) * unit, nil
}

// Seconds normalizes the TTL to whole seconds.
func (t TTL) Seconds() (int64, error) {
	d, err := t.Duration()
	if err != nil {
		return 0, err
	}
	return int64(d / time.Second), nil
}

func (t TTL) String() string {
	return fmt.Sprintf("%d %s", t.Amount, t.Unit)
}

func parseUnit(unit string) (time.Duration, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "s", "sec", "secs", "second", "seconds":
		return time.Second, nil
	case "m", "min", "mins", "minute", "minutes":
		return time.Minute, nil
	case "h", "hr", "hrs", "hour", "hours":
		return time.Hour, nil
	case "d", "day", "days":
		return 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unknown cache ttl unit %q", unit)
}
