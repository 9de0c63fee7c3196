package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkify/internal/models"
)

func testBooking(no, userID, vehicleNo string) *models.Booking {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	return &models.Booking{
		BookingNo:     no,
		UserID:        userID,
		SpotID:        1,
		SpotName:      "Riverside",
		Vehicle:       "SMALL",
		VehicleNo:     vehicleNo,
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		Amount:        9,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		IsActive:      true,
	}
}

func TestCreateAndGetBooking(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	b := testBooking("PKF-AAA111", "user-1", "KA01AB1234")
	require.NoError(t, db.CreateBooking(ctx, b))
	assert.NotZero(t, b.ID)

	loaded, err := db.GetBookingByNo(ctx, "PKF-AAA111")
	require.NoError(t, err)
	assert.Equal(t, "user-1", loaded.UserID)
	assert.Equal(t, models.StatusPending, loaded.Status)
	assert.True(t, loaded.IsActive)
}

func TestGetBookingNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetBookingByNo(context.Background(), "PKF-NOPE")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListBookings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBooking(ctx, testBooking("PKF-AAA111", "user-1", "KA01AB1234")))
	require.NoError(t, db.CreateBooking(ctx, testBooking("PKF-BBB222", "user-1", "MH12CD5678")))
	require.NoError(t, db.CreateBooking(ctx, testBooking("PKF-CCC333", "user-2", "KA01AB1234")))

	t.Run("scoped to user", func(t *testing.T) {
		count, err := db.CountBookings(ctx, "user-1", "")
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		bookings, err := db.ListBookings(ctx, "user-1", "", 0, 10)
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})

	t.Run("search by vehicle number", func(t *testing.T) {
		bookings, err := db.ListBookings(ctx, "user-1", "mh12", 0, 10)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "PKF-BBB222", bookings[0].BookingNo)
	})

	t.Run("search by booking number", func(t *testing.T) {
		count, err := db.CountBookings(ctx, "user-1", "aaa111")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("offset and limit", func(t *testing.T) {
		bookings, err := db.ListBookings(ctx, "user-1", "", 1, 1)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})
}

func TestListAllBookings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBooking(ctx, testBooking("PKF-AAA111", "user-1", "KA01AB1234")))
	require.NoError(t, db.CreateBooking(ctx, testBooking("PKF-BBB222", "user-2", "MH12CD5678")))

	bookings, err := db.ListAllBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestUpdateBookingStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	b := testBooking("PKF-AAA111", "user-1", "KA01AB1234")
	require.NoError(t, db.CreateBooking(ctx, b))

	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusConfirmed))

	loaded, err := db.GetBookingByNo(ctx, "PKF-AAA111")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, loaded.Status)

	t.Run("missing booking", func(t *testing.T) {
		err := db.UpdateBookingStatus(ctx, 999, models.StatusCancelled)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestReviews(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	spot := testSpot("Reviewed", 3)
	require.NoError(t, db.CreateSpot(ctx, spot))

	for _, rating := range []int{5, 3} {
		review := &models.Review{SpotID: spot.ID, Reviewer: "user-1", Rating: rating}
		require.NoError(t, db.CreateReview(ctx, review))
		assert.NotZero(t, review.ID)
	}

	count, average, err := db.ReviewAggregate(ctx, spot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 4.0, average, 0.001)

	t.Run("no reviews", func(t *testing.T) {
		count, average, err := db.ReviewAggregate(ctx, 999)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, average)
	})

	t.Run("recompute writes back onto spot", func(t *testing.T) {
		require.NoError(t, db.RecomputeSpotRating(ctx, spot.ID))
		loaded, err := db.GetSpot(ctx, spot.ID)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, loaded.AverageRating, 0.001)
	})
}
