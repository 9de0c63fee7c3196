package database

import (
	"context"
	"fmt"
	"time"

	"parkify/internal/models"
)

// CreateReview inserts a review for a spot. The spot's stored average rating
// is refreshed asynchronously by the ratings worker.
func (db *DB) CreateReview(ctx context.Context, review *models.Review) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO parking_spot_reviews (spot_id, reviewer, rating, comments, created_at) VALUES (?, ?, ?, ?, ?)`,
		review.SpotID, review.Reviewer, review.Rating, review.Comments, now)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("review insert id: %w", err)
	}
	review.ID = id
	review.CreatedAt = now
	return nil
}

// ReviewAggregate returns the review count and average rating for a spot.
func (db *DB) ReviewAggregate(ctx context.Context, spotID int64) (int, float64, error) {
	var count int
	var average float64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM parking_spot_reviews WHERE spot_id = ?`,
		spotID).Scan(&count, &average)
	if err != nil {
		return 0, 0, fmt.Errorf("review aggregate: %w", err)
	}
	return count, average, nil
}

// RecomputeSpotRating writes the current review average back onto the spot
// row, where the search ordering reads it.
func (db *DB) RecomputeSpotRating(ctx context.Context, spotID int64) error {
	_, err := db.ExecContext(ctx, `UPDATE parking_spots SET
            average_rating = (SELECT COALESCE(AVG(rating), 0) FROM parking_spot_reviews WHERE spot_id = ?),
            updated_at = ?
        WHERE id = ?`, spotID, time.Now(), spotID)
	if err != nil {
		return fmt.Errorf("recompute spot rating: %w", err)
	}
	return nil
}
