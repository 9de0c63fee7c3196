package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"parkify/internal/booking"
	"parkify/internal/database"
	"parkify/internal/metrics"
	"parkify/internal/models"
	"parkify/internal/service"
	"parkify/internal/storage"
)

// handleSpots serves the public paginated spot search.
func (s *HTTPServer) handleSpots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("spots")

	page, err := s.parking.SearchSpots(r.Context(), r.URL.Query(), pathSpots)
	if err != nil {
		s.logger.Error().Err(err).Msg("spot search failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleSpotByID serves one spot with schedule, features and capacities.
func (s *HTTPServer) handleSpotByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("spot_detail")

	raw := strings.TrimPrefix(r.URL.Path, pathSpots+"/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid spot id")
		return
	}

	spot, err := s.parking.GetSpot(r.Context(), id)
	if errors.Is(err, database.ErrSpotNotFound) {
		writeError(w, http.StatusNotFound, "parking spot not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("spot_id", id).Msg("spot load failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

// handleCreateBooking validates and persists a checkout attempt.
func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("create_booking")

	userID := s.principal(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "user identity is required")
		return
	}

	var req service.CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.UserID = userID

	b, err := s.bookings.CreateBooking(r.Context(), req)
	if err != nil {
		var verr *booking.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  verr.Error(),
				"detail": verr,
			})
		case errors.Is(err, database.ErrSpotNotFound):
			writeError(w, http.StatusNotFound, "parking spot not found")
		case errors.Is(err, service.ErrInvalidVehicleType):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error().Err(err).Msg("booking create failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// handleCreateReview persists a review for a spot.
func (s *HTTPServer) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("create_review")

	userID := s.principal(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "user identity is required")
		return
	}

	var req struct {
		SpotID   int64  `json:"parking_spot"`
		Rating   int    `json:"rating"`
		Comments string `json:"comments"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	review := &models.Review{
		SpotID:   req.SpotID,
		Reviewer: userID,
		Rating:   req.Rating,
		Comments: req.Comments,
	}
	err := s.parking.CreateReview(r.Context(), review)
	switch {
	case errors.Is(err, service.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, database.ErrSpotNotFound):
		writeError(w, http.StatusNotFound, "parking spot not found")
		return
	case err != nil:
		s.logger.Error().Err(err).Msg("review create failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// handleBookings serves the caller's paginated booking history.
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("bookings")

	userID := s.principal(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "user identity is required")
		return
	}

	page, err := s.bookings.ListBookings(r.Context(), userID, r.URL.Query(), pathBookings)
	if err != nil {
		s.logger.Error().Err(err).Msg("booking list failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleBookingByNo serves one booking or its printable parking token.
// Routes: GET bookings/{no} and GET bookings/{no}/token.
func (s *HTTPServer) handleBookingByNo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID := s.principal(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "user identity is required")
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, pathBookings+"/"), "/")
	bookingNo := strings.TrimSpace(parts[0])
	if bookingNo == "" {
		writeError(w, http.StatusBadRequest, "booking number is required")
		return
	}

	b, err := s.bookings.GetBooking(r.Context(), bookingNo)
	if errors.Is(err, database.ErrBookingNotFound) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("booking_no", bookingNo).Msg("booking load failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	// A booking is only visible to the user who made it.
	if b.UserID != userID {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	if len(parts) == 2 && parts[1] == "token" {
		metrics.IncHTTP("booking_token")
		data, filename, err := s.bookings.ParkingToken(r.Context(), bookingNo)
		if err != nil {
			s.logger.Error().Err(err).Str("booking_no", bookingNo).Msg("token render failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename=%q`, filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	metrics.IncHTTP("booking_detail")
	writeJSON(w, http.StatusOK, b)
}

// handleAdminSpots lists the caller's spots or creates a new one.
func (s *HTTPServer) handleAdminSpots(w http.ResponseWriter, r *http.Request) {
	owner := s.principal(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "user identity is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		metrics.IncHTTP("admin_spots")
		page, err := s.parking.OwnerSpots(r.Context(), owner, r.URL.Query(), pathAdminSpots)
		if err != nil {
			s.logger.Error().Err(err).Msg("owner spot list failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, page)

	case http.MethodPost:
		metrics.IncHTTP("create_spot")
		var spot models.ParkingSpot
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&spot); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		spot.Owner = owner

		if err := models.ValidateSchedule(spot.Availability); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		err := s.parking.CreateSpot(r.Context(), &spot)
		switch {
		case errors.Is(err, service.ErrInvalidVehicleType), errors.Is(err, service.ErrInvalidFeature):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			s.logger.Error().Err(err).Msg("spot create failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, spot)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleAdminBookings serves the admin booking list for the caller.
func (s *HTTPServer) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("admin_bookings")

	userID := s.principal(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "user identity is required")
		return
	}

	page, err := s.bookings.ListBookings(r.Context(), userID, r.URL.Query(), pathAdminBookings)
	if err != nil {
		s.logger.Error().Err(err).Msg("admin booking list failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleAdminBookingByNo serves the export report and status transitions.
// Routes: GET bookings/export and POST bookings/{no}/status.
func (s *HTTPServer) handleAdminBookingByNo(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, pathAdminBookings+"/"), "/")

	if parts[0] == "export" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		metrics.IncHTTP("bookings_export")

		data, filename, err := s.bookings.ExportBookings(r.Context())
		if err != nil {
			s.logger.Error().Err(err).Msg("booking export failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	if len(parts) == 2 && parts[1] == "status" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		metrics.IncHTTP("booking_status")

		var req struct {
			Status string `json:"status"`
		}
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		b, err := s.bookings.UpdateStatus(r.Context(), parts[0], req.Status)
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, database.ErrBookingNotFound):
			writeError(w, http.StatusNotFound, "booking not found")
			return
		case err != nil:
			s.logger.Error().Err(err).Str("booking_no", parts[0]).Msg("status update failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, b)
		return
	}

	writeError(w, http.StatusNotFound, "not found")
}

// handleFiles serves stored files referenced by signed URLs.
func (s *HTTPServer) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("files")

	tokenParam := r.URL.Query().Get("token")
	if tokenParam == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	path, err := s.signer.Verify(tokenParam)
	switch {
	case errors.Is(err, storage.ErrTokenExpired):
		writeError(w, http.StatusForbidden, "signed url expired")
		return
	case err != nil:
		writeError(w, http.StatusForbidden, "invalid token")
		return
	}

	clean := filepath.Clean("/" + path)
	full := filepath.Join(s.filesDir, clean)
	if _, err := os.Stat(full); err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	http.ServeFile(w, r, full)
}
