package booking

import (
	"math"
	"time"
)

// Price computes the charge for a reservation interval using tiered blended
// rates: stays up to 24 hours are billed hourly; longer stays are billed the
// daily rate per whole 24-hour block plus the hourly rate for the partial
// remainder. Duration is true elapsed time, so DST days bill correctly.
//
// Called after successful validation, but safe on bad input: a non-positive
// duration prices to 0. Currency rounding to 2 decimal places happens exactly
// once, at the end.
func Price(ratePerHour, ratePerDay float64, start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	if hours <= 0 {
		return 0
	}

	var amount float64
	if hours <= 24 {
		amount = hours * ratePerHour
	} else {
		fullDays := math.Floor(hours / 24)
		remainder := hours - fullDays*24
		amount = fullDays*ratePerDay + remainder*ratePerHour
	}

	if amount < 0 {
		return 0
	}
	return math.Round(amount*100) / 100
}
