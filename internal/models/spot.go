package models

import "time"

// VehicleCapacity describes how many vehicles of one type a spot can hold.
type VehicleCapacity struct {
	ID          int64  `json:"id,omitempty" yaml:"id,omitempty"`
	VehicleType string `json:"vehicle_type" yaml:"vehicle_type"`
	Capacity    int64  `json:"capacity" yaml:"capacity"`
}

type ParkingSpot struct {
	ID            int64             `json:"id" yaml:"id"`
	UUID          string            `json:"uuid" yaml:"uuid"`
	Owner         string            `json:"-" yaml:"owner"`
	Name          string            `json:"name" yaml:"name"`
	Description   string            `json:"description,omitempty" yaml:"description"`
	Address       string            `json:"address" yaml:"address"`
	Postcode      string            `json:"postcode,omitempty" yaml:"postcode"`
	CoverImage    string            `json:"cover_image,omitempty" yaml:"cover_image"`
	Latitude      float64           `json:"latitude" yaml:"latitude"`
	Longitude     float64           `json:"longitude" yaml:"longitude"`
	RatePerHour   float64           `json:"rate_per_hour" yaml:"rate_per_hour"`
	RatePerDay    float64           `json:"rate_per_day" yaml:"rate_per_day"`
	AverageRating float64           `json:"average_rating" yaml:"-"`
	TotalReviews  int               `json:"total_reviews" yaml:"-"`
	Distance      *float64          `json:"distance,omitempty" yaml:"-"`
	VehicleTypes  []VehicleCapacity `json:"vehicles_capacity,omitempty" yaml:"vehicles_capacity"`
	Features      []string          `json:"features,omitempty" yaml:"features"`
	Availability  Schedule          `json:"availabilities,omitempty" yaml:"availabilities"`
	CreatedAt     time.Time         `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt     time.Time         `json:"updated_at,omitempty" yaml:"-"`
}

type Review struct {
	ID        int64     `json:"id"`
	SpotID    int64     `json:"spot_id"`
	Reviewer  string    `json:"reviewer"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
