package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	base := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	t.Run("hourly under a day", func(t *testing.T) {
		amount := Price(5, 40, base, base.Add(2*time.Hour))
		assert.Equal(t, 10.0, amount)
	})

	t.Run("exactly 24 hours bills hourly", func(t *testing.T) {
		amount := Price(2, 40, base, base.Add(24*time.Hour))
		assert.Equal(t, 48.0, amount)
	})

	t.Run("full days plus hourly remainder", func(t *testing.T) {
		// 25h = 1 day at 40 + 1h at 2.
		amount := Price(2, 40, base, base.Add(25*time.Hour))
		assert.Equal(t, 42.0, amount)
	})

	t.Run("multiple full days", func(t *testing.T) {
		// 50h = 2 days at 30 + 2h at 3.
		amount := Price(3, 30, base, base.Add(50*time.Hour))
		assert.Equal(t, 66.0, amount)
	})

	t.Run("fractional hours", func(t *testing.T) {
		amount := Price(4, 40, base, base.Add(90*time.Minute))
		assert.Equal(t, 6.0, amount)
	})

	t.Run("rounds to cents once", func(t *testing.T) {
		amount := Price(3.333, 40, base, base.Add(90*time.Minute))
		assert.Equal(t, 5.0, amount)
	})

	t.Run("zero duration", func(t *testing.T) {
		assert.Equal(t, 0.0, Price(5, 40, base, base))
	})

	t.Run("negative duration", func(t *testing.T) {
		assert.Equal(t, 0.0, Price(5, 40, base, base.Add(-time.Hour)))
	})
}
