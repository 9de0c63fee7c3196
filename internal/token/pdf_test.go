package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkify/internal/models"
)

func TestParkingToken(t *testing.T) {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		BookingNo: "PKF-AAA111",
		SpotName:  "Riverside",
		Vehicle:   "SMALL",
		VehicleNo: "KA01AB1234",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Amount:    9,
		Status:    models.StatusConfirmed,
	}

	data, filename, err := ParkingToken(booking)
	require.NoError(t, err)
	assert.Equal(t, "TOKEN_PKF-AAA111.pdf", filename)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestParkingTokenNilBooking(t *testing.T) {
	_, _, err := ParkingToken(nil)
	assert.Error(t, err)
}
