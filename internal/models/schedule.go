package models

import (
	"fmt"
	"strings"
	"time"
)

// Availability is one recurring weekly window during which a spot accepts
// bookings. Times are local HH:MM:SS strings without a date component; an end
// time numerically at or before the start time means the window runs past
// midnight into the next calendar day.
type Availability struct {
	ID        int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Day       string `json:"day" yaml:"day"`
	StartTime string `json:"start_time" yaml:"start_time"`
	EndTime   string `json:"end_time" yaml:"end_time"`
}

// Schedule is a spot's weekly recurring availability, at most one window per
// day. The uniqueness invariant is enforced on write; readers must not rely
// on it and IntervalFor simply returns the first match.
type Schedule []Availability

// IntervalFor looks up the availability window for a day name.
func (s Schedule) IntervalFor(day string) (Availability, bool) {
	for _, a := range s {
		if strings.EqualFold(a.Day, day) {
			return a, true
		}
	}
	return Availability{}, false
}

// Days lists the day names that have an availability window, in schedule order.
func (s Schedule) Days() []string {
	days := make([]string, 0, len(s))
	for _, a := range s {
		days = append(days, a.Day)
	}
	return days
}

// ValidateSchedule rejects duplicate days and unparseable day or time values.
// It runs on the write path; the booking validator tolerates bad schedules.
func ValidateSchedule(s Schedule) error {
	seen := make(map[string]bool, len(s))
	for _, a := range s {
		day := strings.ToLower(strings.TrimSpace(a.Day))
		if !isDayName(day) {
			return fmt.Errorf("invalid day %q", a.Day)
		}
		if seen[day] {
			return fmt.Errorf("duplicate availability for %s", a.Day)
		}
		seen[day] = true

		if _, err := ParseTimeOfDay(a.StartTime); err != nil {
			return fmt.Errorf("availability for %s: %w", a.Day, err)
		}
		if _, err := ParseTimeOfDay(a.EndTime); err != nil {
			return fmt.Errorf("availability for %s: %w", a.Day, err)
		}
	}
	return nil
}

func isDayName(lower string) bool {
	switch lower {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}

// DayName returns the schedule day name for an instant, e.g. "Monday".
func DayName(t time.Time) string {
	return t.Weekday().String()
}

// TimeOfDay is a clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM:SS" (seconds optional).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	trimmed := strings.TrimSpace(s)
	if _, err := fmt.Sscanf(trimmed, "%d:%d:%d", &t.Hour, &t.Minute, &t.Second); err != nil {
		t.Second = 0
		if _, err := fmt.Sscanf(trimmed, "%d:%d", &t.Hour, &t.Minute); err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
		}
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	return t, nil
}

// At combines the clock time with the calendar date of ref, in ref's location.
func (t TimeOfDay) At(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, t.Second, 0, ref.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
