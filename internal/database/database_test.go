package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"parkify/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := New(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testSpot(name string, ratePerHour float64) *models.ParkingSpot {
	return &models.ParkingSpot{
		Name:        name,
		Owner:       "owner-1",
		Address:     "1 Test Street",
		Postcode:    "AB1 2CD",
		Latitude:    51.5,
		Longitude:   -0.1,
		RatePerHour: ratePerHour,
		RatePerDay:  ratePerHour * 8,
		VehicleTypes: []models.VehicleCapacity{
			{VehicleType: "SMALL", Capacity: 5},
		},
		Features: []string{"CCTV"},
		Availability: models.Schedule{
			{Day: "Monday", StartTime: "08:00:00", EndTime: "20:00:00"},
		},
	}
}
