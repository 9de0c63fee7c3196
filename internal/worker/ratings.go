package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"parkify/internal/models"
)

// RatingStore recomputes the stored average rating for one spot.
type RatingStore interface {
	RecomputeSpotRating(ctx context.Context, spotID int64) error
}

// RatingsWorker keeps parking spot average ratings in sync with reviews.
// Recompute requests arrive through Enqueue and are applied asynchronously
// with retry, so review writes never wait on the aggregate update.
type RatingsWorker struct {
	store       RatingStore
	retryPolicy RetryPolicy
	queue       chan int64
	log         zerolog.Logger
}

// NewRatingsWorker builds a worker with sane retry defaults.
func NewRatingsWorker(store RatingStore, retry RetryPolicy, logger *zerolog.Logger) *RatingsWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 30 * time.Second
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "ratings_worker").Logger()
	}

	return &RatingsWorker{
		store:       store,
		retryPolicy: retry,
		queue:       make(chan int64, models.WorkerQueueSize),
		log:         log,
	}
}

// Enqueue schedules a rating recompute for a spot. Never blocks; when the
// queue is full the request is dropped and logged.
func (w *RatingsWorker) Enqueue(spotID int64) {
	select {
	case w.queue <- spotID:
	default:
		w.log.Warn().Int64("spot_id", spotID).Msg("ratings queue full, recompute dropped")
	}
}

// Run consumes the queue until ctx is done.
func (w *RatingsWorker) Run(ctx context.Context) {
	w.log.Info().Msg("ratings worker started")
	defer w.log.Info().Msg("ratings worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case spotID := <-w.queue:
			w.recompute(ctx, spotID)
		}
	}
}

func (w *RatingsWorker) recompute(ctx context.Context, spotID int64) {
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		err := w.store.RecomputeSpotRating(ctx, spotID)
		if err == nil {
			return
		}
		if attempt == w.retryPolicy.MaxRetries {
			w.log.Error().Err(err).Int64("spot_id", spotID).Msg("rating recompute failed")
			return
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.log.Warn().Err(err).Int64("spot_id", spotID).Dur("retry_in", delay).Msg("rating recompute retry")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}
