// Package schedule classifies sessions against the clock and computes the
// business-day window. The business day runs on a fixed UTC-4 offset, not the
// tz database: stored data was written against that constant offset and a
// DST-aware calculation would reclassify it.
package schedule

import (
	"strconv"
	"strings"
	"time"
)

// BusinessZone is the fixed UTC-4 offset used for day-boundary math.
var BusinessZone = time.FixedZone("EDT", -4*60*60)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ToISOString renders an instant as ISO-8601 UTC with milliseconds, the
// canonical stored form of session_date_time and the timestamp attributes.
func ToISOString(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// ParseDuration converts a session duration to minutes. An empty value
// defaults to 60. "H:MM" is hours and minutes; anything else is a plain
// minute count. Malformed values return the parse error untouched.
func ParseDuration(s string) (int, error) {
	if s == "" {
		return 60, nil
	}
	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		hours, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, err
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, err
		}
		return hours*60 + minutes, nil
	}
	return strconv.Atoi(s)
}

// Class is a session's position relative to now.
type Class int

const (
	Past Class = iota
	Current
	Upcoming
)

// Classify places a session: current when start <= now <= start+duration,
// upcoming when it starts later, past otherwise. A malformed duration leaves
// the end instant undefined, so such a session is upcoming when it starts
// later and past otherwise.
func Classify(now, start time.Time, duration string) Class {
	minutes, err := ParseDuration(duration)
	if err != nil {
		if start.After(now) {
			return Upcoming
		}
		return Past
	}
	end := start.Add(time.Duration(minutes) * time.Minute)
	switch {
	case !start.After(now) && !now.After(end):
		return Current
	case start.After(now):
		return Upcoming
	default:
		return Past
	}
}

// Partition splits items into in-progress and upcoming slices, preserving
// order. Past items are dropped. info yields an item's start instant and raw
// duration string.
func Partition[T any](items []T, now time.Time, info func(T) (time.Time, string)) (current, upcoming []T) {
	current = []T{}
	upcoming = []T{}
	for _, item := range items {
		start, duration := info(item)
		switch Classify(now, start, duration) {
		case Current:
			current = append(current, item)
		case Upcoming:
			upcoming = append(upcoming, item)
		}
	}
	return current, upcoming
}

// TodayPrefix is the YYYY-MM-DD date of now in the fixed-offset business day,
// used as a begins_with prefix over stored timestamps.
func TodayPrefix(now time.Time) string {
	return now.In(BusinessZone).Format("2006-01-02")
}

// DayWindow returns the UTC instants bounding a YYYY-MM-DD day interpreted at
// the given fixed offset (hours east of UTC, so -4 for the business day).
func DayWindow(day string, offsetHours int) (time.Time, time.Time, error) {
	loc := time.FixedZone("", offsetHours*60*60)
	start, err := time.ParseInLocation("2006-01-02T15:04:05", day+"T00:00:00", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation("2006-01-02T15:04:05", day+"T23:59:59", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.UTC(), end.UTC(), nil
}
