package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Run("full form", func(t *testing.T) {
		tod, err := ParseTimeOfDay("08:30:15")
		assert.NoError(t, err)
		assert.Equal(t, TimeOfDay{Hour: 8, Minute: 30, Second: 15}, tod)
	})

	t.Run("seconds optional", func(t *testing.T) {
		tod, err := ParseTimeOfDay("22:00")
		assert.NoError(t, err)
		assert.Equal(t, TimeOfDay{Hour: 22, Minute: 0, Second: 0}, tod)
	})

	t.Run("rejects out of range", func(t *testing.T) {
		for _, raw := range []string{"24:00:00", "12:60:00", "12:00:60", "-1:00:00"} {
			_, err := ParseTimeOfDay(raw)
			assert.Error(t, err, raw)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseTimeOfDay("noon")
		assert.Error(t, err)
	})
}

func TestTimeOfDayAt(t *testing.T) {
	ref := time.Date(2026, 9, 7, 18, 45, 0, 0, time.UTC)
	got := TimeOfDay{Hour: 8, Minute: 30, Second: 15}.At(ref)
	assert.Equal(t, time.Date(2026, 9, 7, 8, 30, 15, 0, time.UTC), got)
}

func TestScheduleIntervalFor(t *testing.T) {
	schedule := Schedule{
		{Day: "Monday", StartTime: "08:00:00", EndTime: "20:00:00"},
		{Day: "Friday", StartTime: "10:00:00", EndTime: "18:00:00"},
	}

	t.Run("case insensitive match", func(t *testing.T) {
		a, ok := schedule.IntervalFor("monday")
		assert.True(t, ok)
		assert.Equal(t, "08:00:00", a.StartTime)
	})

	t.Run("missing day", func(t *testing.T) {
		_, ok := schedule.IntervalFor("Sunday")
		assert.False(t, ok)
	})

	t.Run("days in schedule order", func(t *testing.T) {
		assert.Equal(t, []string{"Monday", "Friday"}, schedule.Days())
	})
}

func TestValidateSchedule(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := ValidateSchedule(Schedule{
			{Day: "Monday", StartTime: "08:00:00", EndTime: "20:00:00"},
			{Day: "Saturday", StartTime: "22:00:00", EndTime: "06:00:00"},
		})
		assert.NoError(t, err)
	})

	t.Run("duplicate day rejected", func(t *testing.T) {
		err := ValidateSchedule(Schedule{
			{Day: "Monday", StartTime: "08:00:00", EndTime: "12:00:00"},
			{Day: "monday", StartTime: "14:00:00", EndTime: "20:00:00"},
		})
		assert.ErrorContains(t, err, "duplicate")
	})

	t.Run("bad day name rejected", func(t *testing.T) {
		err := ValidateSchedule(Schedule{{Day: "Funday", StartTime: "08:00:00", EndTime: "12:00:00"}})
		assert.ErrorContains(t, err, "invalid day")
	})

	t.Run("bad time rejected", func(t *testing.T) {
		err := ValidateSchedule(Schedule{{Day: "Monday", StartTime: "late", EndTime: "12:00:00"}})
		assert.Error(t, err)
	})
}

func TestDayName(t *testing.T) {
	// 2026-09-07 is a Monday.
	assert.Equal(t, "Monday", DayName(time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)))
}
