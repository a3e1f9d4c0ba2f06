// Package schedule holds the pure timetable logic: time-of-day normalization,
// conflict detection between weekly recurring lectures, and next-occurrence
// resolution. Nothing in this package performs I/O or keeps process state;
// callers fetch lecture sets and inject them.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeFormat is returned when a raw time string cannot be parsed.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// ReferenceDate anchors persisted lecture times. The calendar date carries no
// meaning; only the hour/minute component participates in comparisons. It is a
// Monday so exported timestamps read naturally in weekly views.
var ReferenceDate = time.Date(2000, time.January, 3, 0, 0, 0, 0, time.UTC)

// TimeOfDay is an hour/minute pair, comparable across lectures regardless of
// the calendar date their instants were stored with.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// After reports whether t is strictly later than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.Minutes() > other.Minutes()
}

// String renders the canonical HH:MM form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Anchor returns the instant on the fixed reference date carrying this
// time-of-day. Anchored values from any source compare consistently.
func (t TimeOfDay) Anchor() time.Time {
	return time.Date(ReferenceDate.Year(), ReferenceDate.Month(), ReferenceDate.Day(), t.Hour, t.Minute, 0, 0, time.UTC)
}

// FromInstant extracts the time-of-day component of a stored instant.
func FromInstant(ts time.Time) TimeOfDay {
	return TimeOfDay{Hour: ts.Hour(), Minute: ts.Minute()}
}

// Layouts tried for raw values that contain a date component.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimeOfDay normalizes a raw time string. Two shapes are accepted:
// a bare clock value ("14:00" or "14:00:30") and a full date-time string
// (anything containing 'T' or a space). For date-times only the hour/minute
// survives; the date is discarded. Malformed input yields ErrInvalidTimeFormat.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TimeOfDay{}, fmt.Errorf("%w: empty value", ErrInvalidTimeFormat)
	}

	if strings.ContainsAny(trimmed, "T ") {
		for _, layout := range dateTimeLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return FromInstant(ts), nil
			}
		}
		return TimeOfDay{}, fmt.Errorf("%w: unrecognised date-time %q", ErrInvalidTimeFormat, raw)
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidTimeFormat, raw)
	}

	hour, err := parseComponent(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: bad hour in %q", ErrInvalidTimeFormat, raw)
	}
	minute, err := parseComponent(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: bad minute in %q", ErrInvalidTimeFormat, raw)
	}
	if len(parts) == 3 {
		if _, err := parseComponent(parts[2]); err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: bad second in %q", ErrInvalidTimeFormat, raw)
		}
	}

	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: hour out of range in %q", ErrInvalidTimeFormat, raw)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minute out of range in %q", ErrInvalidTimeFormat, raw)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func parseComponent(s string) (int, error) {
	if s == "" || len(s) > 2 {
		return 0, fmt.Errorf("bad component %q", s)
	}
	value := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric component %q", s)
		}
		value = value*10 + int(r-'0')
	}
	return value, nil
}
