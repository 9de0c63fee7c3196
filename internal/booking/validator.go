// Package booking implements the validation and pricing rules for parking
// reservations against a spot's weekly recurring availability.
package booking

import (
	"fmt"
	"strings"
	"time"

	"parkify/internal/models"
)

type Reason string

const (
	ReasonPastStart      Reason = "PAST_START"
	ReasonPastEnd        Reason = "PAST_END"
	ReasonEndBeforeStart Reason = "END_BEFORE_START"
	ReasonDayUnavailable Reason = "DAY_UNAVAILABLE"
	ReasonTimeOutOfRange Reason = "TIME_OUT_OF_RANGE"
)

type Side string

const (
	SideStart Side = "start"
	SideEnd   Side = "end"
)

// Candidate is a proposed, not yet validated reservation interval.
type Candidate struct {
	SpotID int64
	Start  time.Time
	End    time.Time
}

// ValidationError carries a machine-readable rejection so callers can render
// a precise message. Side, ValidDays and the window fields are populated only
// for the reasons that need them.
type ValidationError struct {
	Reason      Reason    `json:"code"`
	Side        Side      `json:"side,omitempty"`
	ValidDays   []string  `json:"valid_days,omitempty"`
	WindowStart time.Time `json:"window_start,omitempty"`
	WindowEnd   time.Time `json:"window_end,omitempty"`
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonPastStart:
		return "start time must be in the future"
	case ReasonPastEnd:
		return "end time must be in the future"
	case ReasonEndBeforeStart:
		return "end time must be after start time"
	case ReasonDayUnavailable:
		return fmt.Sprintf("parking is not available on the %s day, choose from %s",
			e.Side, strings.Join(e.ValidDays, ", "))
	case ReasonTimeOutOfRange:
		return fmt.Sprintf("%s time is not valid, please choose between %s and %s",
			e.Side,
			e.WindowStart.Format("15:04:05"),
			e.WindowEnd.Format("15:04:05"))
	}
	return string(e.Reason)
}

// Validate checks a candidate against a spot's schedule. It returns nil on
// acceptance or the first failing rule, in a fixed order, so the caller sees
// a single deterministic rejection.
//
// Start and end are validated against their own day's window: a booking from
// Monday 23:00 to Tuesday 01:00 needs a Monday window covering 23:00 and a
// Tuesday window covering 01:00.
func Validate(c Candidate, schedule models.Schedule, now time.Time) *ValidationError {
	if !c.Start.After(now) {
		return &ValidationError{Reason: ReasonPastStart}
	}
	if !c.End.After(now) {
		return &ValidationError{Reason: ReasonPastEnd}
	}
	if !c.End.After(c.Start) {
		return &ValidationError{Reason: ReasonEndBeforeStart}
	}

	startInterval, ok := schedule.IntervalFor(models.DayName(c.Start))
	if !ok {
		return &ValidationError{Reason: ReasonDayUnavailable, Side: SideStart, ValidDays: schedule.Days()}
	}
	endInterval, ok := schedule.IntervalFor(models.DayName(c.End))
	if !ok {
		return &ValidationError{Reason: ReasonDayUnavailable, Side: SideEnd, ValidDays: schedule.Days()}
	}

	if verr := checkWindow(SideStart, c.Start, startInterval, schedule); verr != nil {
		return verr
	}
	if verr := checkWindow(SideEnd, c.End, endInterval, schedule); verr != nil {
		return verr
	}
	return nil
}

// checkWindow anchors the interval's clock times to the instant's calendar
// date and verifies the instant falls inside the resulting window, inclusive
// of both bounds. An end clock time at or before the start spans midnight.
func checkWindow(side Side, instant time.Time, interval models.Availability, schedule models.Schedule) *ValidationError {
	startClock, err := models.ParseTimeOfDay(interval.StartTime)
	if err != nil {
		// Unusable window: the write side should have rejected this schedule.
		return &ValidationError{Reason: ReasonDayUnavailable, Side: side, ValidDays: schedule.Days()}
	}
	endClock, err := models.ParseTimeOfDay(interval.EndTime)
	if err != nil {
		return &ValidationError{Reason: ReasonDayUnavailable, Side: side, ValidDays: schedule.Days()}
	}

	windowStart := startClock.At(instant)
	windowEnd := endClock.At(instant)
	if !windowEnd.After(windowStart) {
		windowEnd = windowEnd.AddDate(0, 0, 1)
	}

	if instant.Before(windowStart) || instant.After(windowEnd) {
		return &ValidationError{
			Reason:      ReasonTimeOutOfRange,
			Side:        side,
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
		}
	}
	return nil
}
