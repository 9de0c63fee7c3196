package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parkify/internal/booking"
	"parkify/internal/events"
	"parkify/internal/export"
	"parkify/internal/metrics"
	"parkify/internal/models"
	"parkify/internal/pagination"
	"parkify/internal/query"
	"parkify/internal/token"
)

// BookingStore is the booking persistence surface the service consumes.
type BookingStore interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	CountBookings(ctx context.Context, userID, search string) (int, error)
	ListBookings(ctx context.Context, userID, search string, offset, limit int) ([]models.Booking, error)
	ListAllBookings(ctx context.Context) ([]models.Booking, error)
	GetBookingByNo(ctx context.Context, bookingNo string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
}

// SpotGetter is the slice of the spot store booking creation needs.
type SpotGetter interface {
	GetSpot(ctx context.Context, id int64) (*models.ParkingSpot, error)
}

// CreateBookingRequest is a checkout attempt for one spot and time window.
type CreateBookingRequest struct {
	UserID    string    `json:"-"`
	SpotID    int64     `json:"parking_spot"`
	Vehicle   string    `json:"vehicle"`
	VehicleNo string    `json:"vehicle_no"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type BookingService struct {
	store    BookingStore
	spots    SpotGetter
	eventBus *events.EventBus
	defaults query.Defaults
	logger   *zerolog.Logger
}

func NewBookingService(store BookingStore, spots SpotGetter, eventBus *events.EventBus, defaults query.Defaults, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    store,
		spots:    spots,
		eventBus: eventBus,
		defaults: defaults,
		logger:   logger,
	}
}

// CreateBooking validates the window against the spot's schedule, prices it
// and persists the booking. A validation rejection comes back as a
// *booking.ValidationError so the transport can render the reason.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if !models.IsVehicleType(req.Vehicle) {
		return nil, ErrInvalidVehicleType
	}

	spot, err := s.spots.GetSpot(ctx, req.SpotID)
	if err != nil {
		return nil, err
	}

	candidate := booking.Candidate{SpotID: req.SpotID, Start: req.StartTime, End: req.EndTime}
	if verr := booking.Validate(candidate, spot.Availability, time.Now()); verr != nil {
		metrics.IncBookingRejection(string(verr.Reason))
		s.logger.Info().
			Int64("spot_id", req.SpotID).
			Str("reason", string(verr.Reason)).
			Msg("booking rejected")
		return nil, verr
	}

	b := &models.Booking{
		BookingNo:     newBookingNo(),
		UserID:        req.UserID,
		SpotID:        spot.ID,
		SpotName:      spot.Name,
		Vehicle:       req.Vehicle,
		VehicleNo:     req.VehicleNo,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Amount:        booking.Price(spot.RatePerHour, spot.RatePerDay, req.StartTime, req.EndTime),
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		IsActive:      true,
	}

	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishEvent(events.EventBookingCreated, b)
	s.logger.Info().
		Str("booking_no", b.BookingNo).
		Int64("spot_id", b.SpotID).
		Float64("amount", b.Amount).
		Msg("booking created")
	return b, nil
}

// ListBookings serves one page of a user's bookings, with optional free-text
// search over vehicle and booking numbers.
func (s *BookingService) ListBookings(ctx context.Context, userID string, params url.Values, basePath string) (*pagination.Page[models.Booking], error) {
	d := s.defaults.Build(params)

	page, err := pagination.Paginate[models.Booking](ctx, d, bookingSource{store: s.store, userID: userID}, basePath, nil)
	if err != nil {
		return nil, err
	}
	metrics.IncPageServed("bookings")
	return page, nil
}

// GetBooking looks up one booking by its public number.
func (s *BookingService) GetBooking(ctx context.Context, bookingNo string) (*models.Booking, error) {
	return s.store.GetBookingByNo(ctx, bookingNo)
}

// UpdateStatus transitions a booking and publishes the matching event.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingNo, status string) (*models.Booking, error) {
	if !models.IsBookingStatus(status) {
		return nil, ErrInvalidStatus
	}

	b, err := s.store.GetBookingByNo(ctx, bookingNo)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateBookingStatus(ctx, b.ID, status); err != nil {
		return nil, err
	}
	b.Status = status

	if eventType, ok := statusEvents[status]; ok {
		s.publishEvent(eventType, b)
	}
	return b, nil
}

// ParkingToken renders the printable PDF token for a booking.
func (s *BookingService) ParkingToken(ctx context.Context, bookingNo string) ([]byte, string, error) {
	b, err := s.store.GetBookingByNo(ctx, bookingNo)
	if err != nil {
		return nil, "", err
	}
	return token.ParkingToken(b)
}

// ExportBookings renders every booking into an xlsx report.
func (s *BookingService) ExportBookings(ctx context.Context) ([]byte, string, error) {
	bookings, err := s.store.ListAllBookings(ctx)
	if err != nil {
		return nil, "", err
	}
	data, err := export.BookingsReport(bookings)
	if err != nil {
		return nil, "", err
	}
	return data, export.FileName(time.Now()), nil
}

var statusEvents = map[string]string{
	models.StatusConfirmed: events.EventBookingConfirmed,
	models.StatusCancelled: events.EventBookingCancelled,
	models.StatusCompleted: events.EventBookingCompleted,
}

func (s *BookingService) publishEvent(eventType string, b *models.Booking) {
	err := s.eventBus.PublishJSON(eventType, events.BookingEventPayload{
		BookingNo: b.BookingNo,
		UserID:    b.UserID,
		SpotID:    b.SpotID,
		SpotName:  b.SpotName,
		Status:    b.Status,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Amount:    b.Amount,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("booking_no", b.BookingNo).Msg("publish booking event failed")
	}
}

// bookingSource pages one user's bookings; only the search, offset and limit
// dimensions of the descriptor apply.
type bookingSource struct {
	store  BookingStore
	userID string
}

func (src bookingSource) Count(ctx context.Context, d query.Descriptor) (int, error) {
	return src.store.CountBookings(ctx, src.userID, d.Search)
}

func (src bookingSource) Fetch(ctx context.Context, d query.Descriptor) ([]models.Booking, error) {
	return src.store.ListBookings(ctx, src.userID, d.Search, d.Offset, d.Limit)
}

func (src bookingSource) RankByDistance(ctx context.Context, _ query.Coordinate, d query.Descriptor) ([]models.Booking, error) {
	return src.Fetch(ctx, d)
}

// newBookingNo mints the public booking number.
func newBookingNo() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PKF-" + raw[:12]
}
