package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"parkify/internal/models"
	"parkify/internal/query"
)

const spotColumns = `s.id, s.uuid, s.name, COALESCE(s.description, ''), s.address,
        COALESCE(s.postcode, ''), COALESCE(s.cover_image, ''), s.latitude, s.longitude,
        s.rate_per_hour, s.rate_per_day, s.average_rating, s.created_at, s.updated_at`

// CountSpots returns the exact number of spots matching the descriptor's
// filter state. Sort and pagination fields are ignored.
func (db *DB) CountSpots(ctx context.Context, d query.Descriptor) (int, error) {
	where, args := spotFilters(d)
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM parking_spots s`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count spots: %w", err)
	}
	return count, nil
}

// FetchSpots applies filters, orders by the descriptor's sort field and
// returns the offset/limit slice. Distance ordering is served by
// RankSpotsByDistance instead.
func (db *DB) FetchSpots(ctx context.Context, d query.Descriptor) ([]models.ParkingSpot, error) {
	where, args := spotFilters(d)

	orderCol := "s.rate_per_hour"
	if d.Sort == query.SortRating {
		orderCol = "s.average_rating"
	}
	direction := "ASC"
	if d.Descending {
		direction = "DESC"
	}

	q := fmt.Sprintf(`SELECT %s FROM parking_spots s%s ORDER BY %s %s, s.id ASC LIMIT ? OFFSET ?`,
		spotColumns, where, orderCol, direction)
	args = append(args, d.Limit, d.Offset)

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch spots: %w", err)
	}
	defer rows.Close()

	return scanSpots(rows)
}

// RankSpotsByDistance orders the filtered set by haversine distance from the
// origin before slicing. The full candidate set is ranked so the slice is
// consistent across pages of the same result set.
func (db *DB) RankSpotsByDistance(ctx context.Context, origin query.Coordinate, d query.Descriptor) ([]models.ParkingSpot, error) {
	where, args := spotFilters(d)

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM parking_spots s%s`, spotColumns, where), args...)
	if err != nil {
		return nil, fmt.Errorf("rank spots: %w", err)
	}
	defer rows.Close()

	spots, err := scanSpots(rows)
	if err != nil {
		return nil, err
	}

	for i := range spots {
		dist := haversineKm(origin.Latitude, origin.Longitude, spots[i].Latitude, spots[i].Longitude)
		spots[i].Distance = &dist
	}
	sort.SliceStable(spots, func(i, j int) bool {
		if d.Descending {
			return *spots[i].Distance > *spots[j].Distance
		}
		return *spots[i].Distance < *spots[j].Distance
	})

	start := d.Offset
	if start > len(spots) {
		start = len(spots)
	}
	end := start + d.Limit
	if end > len(spots) {
		end = len(spots)
	}
	return spots[start:end], nil
}

// GetSpot loads one spot with its schedule, features and vehicle capacity.
func (db *DB) GetSpot(ctx context.Context, id int64) (*models.ParkingSpot, error) {
	row := db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM parking_spots s WHERE s.id = ?`, spotColumns), id)

	spot, err := scanSpot(row)
	if err == sql.ErrNoRows {
		return nil, ErrSpotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get spot: %w", err)
	}

	if spot.Availability, err = db.loadSchedule(ctx, spot.ID); err != nil {
		return nil, err
	}
	if spot.Features, err = db.loadFeatures(ctx, spot.ID); err != nil {
		return nil, err
	}
	if spot.VehicleTypes, err = db.loadCapacities(ctx, spot.ID); err != nil {
		return nil, err
	}
	return spot, nil
}

// CreateSpot inserts a spot with its nested availabilities, features and
// capacities in one transaction. A schedule with duplicate days fails the
// whole write.
func (db *DB) CreateSpot(ctx context.Context, spot *models.ParkingSpot) error {
	if err := models.ValidateSchedule(spot.Availability); err != nil {
		return err
	}
	if spot.UUID == "" {
		spot.UUID = uuid.NewString()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `INSERT INTO parking_spots (
            uuid, owner, name, description, address, postcode, cover_image,
            latitude, longitude, rate_per_hour, rate_per_day, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		spot.UUID, spot.Owner, spot.Name, spot.Description, spot.Address, spot.Postcode,
		spot.CoverImage, spot.Latitude, spot.Longitude, spot.RatePerHour, spot.RatePerDay, now, now)
	if err != nil {
		return fmt.Errorf("insert spot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("spot insert id: %w", err)
	}

	for _, a := range spot.Availability {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parking_spot_availabilities (spot_id, day, start_time, end_time) VALUES (?, ?, ?, ?)`,
			id, a.Day, a.StartTime, a.EndTime); err != nil {
			return fmt.Errorf("insert availability: %w", err)
		}
	}
	for _, f := range spot.Features {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parking_spot_features (spot_id, feature) VALUES (?, ?)`, id, f); err != nil {
			return fmt.Errorf("insert feature: %w", err)
		}
	}
	for _, vc := range spot.VehicleTypes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parking_spot_vehicle_capacity (spot_id, vehicle_type, capacity) VALUES (?, ?, ?)`,
			id, vc.VehicleType, vc.Capacity); err != nil {
			return fmt.Errorf("insert vehicle capacity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit spot: %w", err)
	}

	spot.ID = id
	spot.CreatedAt = now
	spot.UpdatedAt = now
	return nil
}

// CountSpotsByOwner returns the number of spots an owner manages.
func (db *DB) CountSpotsByOwner(ctx context.Context, owner string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM parking_spots s WHERE s.owner = ?`, owner).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count owner spots: %w", err)
	}
	return count, nil
}

// ListSpotsByOwner pages an owner's spots, most recently updated first.
func (db *DB) ListSpotsByOwner(ctx context.Context, owner string, offset, limit int) ([]models.ParkingSpot, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM parking_spots s WHERE s.owner = ? ORDER BY s.updated_at DESC, s.id DESC LIMIT ? OFFSET ?`,
		spotColumns), owner, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list owner spots: %w", err)
	}
	defer rows.Close()

	return scanSpots(rows)
}

func (db *DB) loadSchedule(ctx context.Context, spotID int64) (models.Schedule, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, day, start_time, end_time FROM parking_spot_availabilities WHERE spot_id = ? ORDER BY id`, spotID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	defer rows.Close()

	var schedule models.Schedule
	for rows.Next() {
		var a models.Availability
		if err := rows.Scan(&a.ID, &a.Day, &a.StartTime, &a.EndTime); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		schedule = append(schedule, a)
	}
	return schedule, rows.Err()
}

func (db *DB) loadFeatures(ctx context.Context, spotID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT feature FROM parking_spot_features WHERE spot_id = ? ORDER BY id`, spotID)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	defer rows.Close()

	var features []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

func (db *DB) loadCapacities(ctx context.Context, spotID int64) ([]models.VehicleCapacity, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, vehicle_type, capacity FROM parking_spot_vehicle_capacity WHERE spot_id = ? ORDER BY id`, spotID)
	if err != nil {
		return nil, fmt.Errorf("load capacities: %w", err)
	}
	defer rows.Close()

	var capacities []models.VehicleCapacity
	for rows.Next() {
		var vc models.VehicleCapacity
		if err := rows.Scan(&vc.ID, &vc.VehicleType, &vc.Capacity); err != nil {
			return nil, fmt.Errorf("scan capacity: %w", err)
		}
		capacities = append(capacities, vc)
	}
	return capacities, rows.Err()
}

// spotFilters builds the WHERE clause for the descriptor's filter dimensions:
// vehicle type and feature membership plus case-insensitive substring search
// over name, address and postcode.
func spotFilters(d query.Descriptor) (string, []any) {
	var conds []string
	var args []any

	if len(d.VehicleTypes) > 0 {
		conds = append(conds, `EXISTS (SELECT 1 FROM parking_spot_vehicle_capacity vc
            WHERE vc.spot_id = s.id AND vc.vehicle_type IN (`+placeholders(len(d.VehicleTypes))+`))`)
		for _, v := range d.VehicleTypes {
			args = append(args, v)
		}
	}
	if len(d.Features) > 0 {
		conds = append(conds, `EXISTS (SELECT 1 FROM parking_spot_features f
            WHERE f.spot_id = s.id AND f.feature IN (`+placeholders(len(d.Features))+`))`)
		for _, f := range d.Features {
			args = append(args, f)
		}
	}
	if d.Search != "" {
		conds = append(conds, `(LOWER(s.name) LIKE ? OR LOWER(s.address) LIKE ? OR LOWER(s.postcode) LIKE ?)`)
		pattern := "%" + strings.ToLower(d.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpot(row rowScanner) (*models.ParkingSpot, error) {
	var s models.ParkingSpot
	err := row.Scan(&s.ID, &s.UUID, &s.Name, &s.Description, &s.Address, &s.Postcode,
		&s.CoverImage, &s.Latitude, &s.Longitude, &s.RatePerHour, &s.RatePerDay,
		&s.AverageRating, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSpots(rows *sql.Rows) ([]models.ParkingSpot, error) {
	var spots []models.ParkingSpot
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan spot: %w", err)
		}
		spots = append(spots, *s)
	}
	return spots, rows.Err()
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
