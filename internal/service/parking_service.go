// Package service holds the business logic between the HTTP layer and the
// storage layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"parkify/internal/events"
	"parkify/internal/metrics"
	"parkify/internal/models"
	"parkify/internal/pagination"
	"parkify/internal/query"
)

var (
	ErrInvalidVehicleType = errors.New("unknown vehicle type")
	ErrInvalidFeature     = errors.New("unknown parking feature")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus      = errors.New("unknown booking status")
)

// SpotStore is the spot persistence surface the service consumes.
type SpotStore interface {
	CountSpots(ctx context.Context, d query.Descriptor) (int, error)
	FetchSpots(ctx context.Context, d query.Descriptor) ([]models.ParkingSpot, error)
	RankSpotsByDistance(ctx context.Context, origin query.Coordinate, d query.Descriptor) ([]models.ParkingSpot, error)
	GetSpot(ctx context.Context, id int64) (*models.ParkingSpot, error)
	CreateSpot(ctx context.Context, spot *models.ParkingSpot) error
	CountSpotsByOwner(ctx context.Context, owner string) (int, error)
	ListSpotsByOwner(ctx context.Context, owner string, offset, limit int) ([]models.ParkingSpot, error)
	CreateReview(ctx context.Context, review *models.Review) error
	ReviewAggregate(ctx context.Context, spotID int64) (int, float64, error)
}

// URLSigner turns a stored file path into a time-limited public URL.
type URLSigner interface {
	Sign(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// RatingsQueue schedules asynchronous rating recomputes.
type RatingsQueue interface {
	Enqueue(spotID int64)
}

type ParkingService struct {
	store    SpotStore
	signer   URLSigner
	signTTL  time.Duration
	eventBus *events.EventBus
	ratings  RatingsQueue
	defaults query.Defaults
	logger   *zerolog.Logger
}

func NewParkingService(store SpotStore, signer URLSigner, signTTL time.Duration, eventBus *events.EventBus, ratings RatingsQueue, defaults query.Defaults, logger *zerolog.Logger) *ParkingService {
	if signTTL <= 0 {
		signTTL = time.Duration(models.DefaultSignedURLTTL) * time.Second
	}
	return &ParkingService{
		store:    store,
		signer:   signer,
		signTTL:  signTTL,
		eventBus: eventBus,
		ratings:  ratings,
		defaults: defaults,
		logger:   logger,
	}
}

// spotSource adapts the store to the pagination source contract.
type spotSource struct {
	store SpotStore
}

func (src spotSource) Count(ctx context.Context, d query.Descriptor) (int, error) {
	return src.store.CountSpots(ctx, d)
}

func (src spotSource) Fetch(ctx context.Context, d query.Descriptor) ([]models.ParkingSpot, error) {
	return src.store.FetchSpots(ctx, d)
}

func (src spotSource) RankByDistance(ctx context.Context, origin query.Coordinate, d query.Descriptor) ([]models.ParkingSpot, error) {
	return src.store.RankSpotsByDistance(ctx, origin, d)
}

// SearchSpots serves one page of the public spot search.
func (s *ParkingService) SearchSpots(ctx context.Context, params url.Values, basePath string) (*pagination.Page[models.ParkingSpot], error) {
	d := s.defaults.Build(params)
	page, err := pagination.Paginate[models.ParkingSpot](ctx, d, spotSource{store: s.store}, basePath, s.enrichSpot)
	if err != nil {
		return nil, err
	}
	metrics.IncPageServed("spots")
	return page, nil
}

// ownerSource serves an owner's spots with a fixed recency ordering; filter
// and sort dimensions of the descriptor do not apply.
type ownerSource struct {
	store SpotStore
	owner string
}

func (src ownerSource) Count(ctx context.Context, _ query.Descriptor) (int, error) {
	return src.store.CountSpotsByOwner(ctx, src.owner)
}

func (src ownerSource) Fetch(ctx context.Context, d query.Descriptor) ([]models.ParkingSpot, error) {
	return src.store.ListSpotsByOwner(ctx, src.owner, d.Offset, d.Limit)
}

func (src ownerSource) RankByDistance(ctx context.Context, _ query.Coordinate, d query.Descriptor) ([]models.ParkingSpot, error) {
	return src.Fetch(ctx, d)
}

// OwnerSpots serves one page of an owner's spots, most recently updated first.
func (s *ParkingService) OwnerSpots(ctx context.Context, owner string, params url.Values, basePath string) (*pagination.Page[models.ParkingSpot], error) {
	d := s.defaults.Build(params)
	d.Sort = s.defaults.Sort
	d.Descending = s.defaults.Descending
	d.Origin = nil

	page, err := pagination.Paginate[models.ParkingSpot](ctx, d, ownerSource{store: s.store, owner: owner}, basePath, s.enrichSpot)
	if err != nil {
		return nil, err
	}
	metrics.IncPageServed("owner_spots")
	return page, nil
}

// GetSpot loads one fully populated, enriched spot.
func (s *ParkingService) GetSpot(ctx context.Context, id int64) (*models.ParkingSpot, error) {
	spot, err := s.store.GetSpot(ctx, id)
	if err != nil {
		return nil, err
	}
	s.enrichSpot(ctx, spot)
	return spot, nil
}

// CreateSpot validates referenced vehicle types and features, then persists
// the spot with its nested availability, features and capacities.
func (s *ParkingService) CreateSpot(ctx context.Context, spot *models.ParkingSpot) error {
	for _, vc := range spot.VehicleTypes {
		if !models.IsVehicleType(vc.VehicleType) {
			return fmt.Errorf("%w: %s", ErrInvalidVehicleType, vc.VehicleType)
		}
	}
	for _, feature := range spot.Features {
		if !models.IsParkingFeature(feature) {
			return fmt.Errorf("%w: %s", ErrInvalidFeature, feature)
		}
	}

	if err := s.store.CreateSpot(ctx, spot); err != nil {
		return err
	}

	s.logger.Info().Int64("spot_id", spot.ID).Str("owner", spot.Owner).Msg("parking spot created")
	return nil
}

// CreateReview persists a review, emits the review event and schedules the
// spot's stored rating for recompute.
func (s *ParkingService) CreateReview(ctx context.Context, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidRating
	}
	if _, err := s.store.GetSpot(ctx, review.SpotID); err != nil {
		return err
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		return err
	}

	if err := s.eventBus.PublishJSON(events.EventReviewCreated, events.ReviewEventPayload{
		ReviewID: review.ID,
		SpotID:   review.SpotID,
		Reviewer: review.Reviewer,
		Rating:   review.Rating,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("publish review event failed")
	}

	if s.ratings != nil {
		s.ratings.Enqueue(review.SpotID)
	}
	return nil
}

// enrichSpot fills live review aggregates and signs the cover image URL.
// Either enrichment degrades on failure instead of failing the page.
func (s *ParkingService) enrichSpot(ctx context.Context, spot *models.ParkingSpot) {
	count, average, err := s.store.ReviewAggregate(ctx, spot.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("spot_id", spot.ID).Msg("review aggregate failed")
	} else {
		spot.TotalReviews = count
		spot.AverageRating = average
	}

	if spot.CoverImage == "" || s.signer == nil {
		spot.CoverImage = ""
		return
	}
	signed, err := s.signer.Sign(ctx, spot.CoverImage, s.signTTL)
	if err != nil {
		s.logger.Warn().Err(err).Int64("spot_id", spot.ID).Msg("cover image signing failed")
		spot.CoverImage = ""
		return
	}
	spot.CoverImage = signed
}
