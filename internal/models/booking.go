package models

import "time"

type Booking struct {
	ID            int64     `json:"id"`
	BookingNo     string    `json:"booking_no"`
	UserID        string    `json:"user_id"`
	SpotID        int64     `json:"parking_spot"`
	SpotName      string    `json:"spot_name,omitempty"`
	Vehicle       string    `json:"vehicle"`
	VehicleNo     string    `json:"vehicle_no"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"` // pending, confirmed, cancelled, completed
	PaymentStatus string    `json:"payment_status"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
