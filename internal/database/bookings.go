package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"parkify/internal/models"
)

const bookingColumns = `id, booking_no, user_id, spot_id, spot_name, vehicle, vehicle_no,
        start_time, end_time, amount, status, payment_status, is_active, created_at, updated_at`

// CreateBooking inserts an already validated and priced booking.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	result, err := db.ExecContext(ctx, `INSERT INTO bookings (
            booking_no, user_id, spot_id, spot_name, vehicle, vehicle_no,
            start_time, end_time, amount, status, payment_status, is_active, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.BookingNo, booking.UserID, booking.SpotID, booking.SpotName,
		booking.Vehicle, booking.VehicleNo, booking.StartTime, booking.EndTime,
		booking.Amount, booking.Status, booking.PaymentStatus, booking.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("booking insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// CountBookings returns the number of a user's bookings matching the optional
// free-text search over vehicle and booking numbers.
func (db *DB) CountBookings(ctx context.Context, userID, search string) (int, error) {
	where, args := bookingFilters(userID, search)
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

// ListBookings pages a user's bookings, most recently updated first.
func (db *DB) ListBookings(ctx context.Context, userID, search string, offset, limit int) ([]models.Booking, error) {
	where, args := bookingFilters(userID, search)
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM bookings%s ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`,
		bookingColumns, where), args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// ListAllBookings returns every booking, newest first. Used by report exports.
func (db *DB) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM bookings ORDER BY created_at DESC, id DESC`, bookingColumns))
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// GetBookingByNo looks up one booking by its public booking number.
func (db *DB) GetBookingByNo(ctx context.Context, bookingNo string) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM bookings WHERE booking_no = ?`, bookingColumns), bookingNo)

	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// UpdateBookingStatus transitions a booking to a new status.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func bookingFilters(userID, search string) (string, []any) {
	conds := []string{"user_id = ?"}
	args := []any{userID}

	if search != "" {
		conds = append(conds, `(LOWER(vehicle_no) LIKE ? OR LOWER(booking_no) LIKE ?)`)
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.BookingNo, &b.UserID, &b.SpotID, &b.SpotName,
		&b.Vehicle, &b.VehicleNo, &b.StartTime, &b.EndTime, &b.Amount,
		&b.Status, &b.PaymentStatus, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return &b, nil
}
