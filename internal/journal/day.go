// ABOUTME: Calendar-day arithmetic for the journal: day keys, day numbers, boundaries
// ABOUTME: All comparisons use civil dates, never wall-clock durations
package journal

import (
	"time"
)

// DayKeyLayout is the canonical, lexicographically sortable day key format
const DayKeyLayout = "2006-01-02"

// DefaultChallengeDays is the length of the challenge
const DefaultChallengeDays = 30

// DayKeyOf returns the calendar-day key of t in t's own location
func DayKeyOf(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey validates key and returns midnight UTC of that date
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(DayKeyLayout, key)
	if err != nil || t.Format(DayKeyLayout) != key {
		return time.Time{}, &ValidationError{Field: "day key", Value: key, Reason: "expected YYYY-MM-DD"}
	}
	return t, nil
}

// civilDay counts calendar days since the Unix epoch for t's local date
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// CurrentDayNumber returns the 1-based challenge day for today, clamped to
// [1, length]. Both instants are reduced to calendar dates in today's location.
func CurrentDayNumber(today, start time.Time, length int) int {
	if length < 1 {
		length = 1
	}
	n := civilDay(today) - civilDay(start.In(today.Location())) + 1
	if n < 1 {
		return 1
	}
	if n > int64(length) {
		return length
	}
	return int(n)
}

// DayNumberForKeys is CurrentDayNumber over two day keys
func DayNumberForKeys(todayKey, startKey string, length int) (int, error) {
	today, err := ParseDayKey(todayKey)
	if err != nil {
		return 0, err
	}
	start, err := ParseDayKey(startKey)
	if err != nil {
		return 0, err
	}
	return CurrentDayNumber(today, start, length), nil
}

// Boundary is the outcome of the once-per-session day boundary check
type Boundary int

const (
	// Continued resumes today's in-progress state
	Continued Boundary = iota + 1
	// NewDay starts from all-false habits and an empty diary
	NewDay
)

func (b Boundary) String() string {
	switch b {
	case Continued:
		return "continued"
	case NewDay:
		return "new-day"
	default:
		return "unknown"
	}
}

// ResolveDayBoundary compares the last day with session activity against today
func ResolveDayBoundary(lastKnownKey, todayKey string) Boundary {
	if lastKnownKey != "" && lastKnownKey == todayKey {
		return Continued
	}
	return NewDay
}
