package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrSpotNotFound    = errors.New("parking spot not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// DB wraps the sqlite connection behind the store operations the services
// consume: spot search, nested spot writes, bookings and review aggregates.
type DB struct {
	*sql.DB
	log zerolog.Logger
}

func New(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "database").Logger()
	}
	log.Info().Str("path", path).Msg("database initialized")

	return &DB{DB: db, log: log}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS parking_spots (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            uuid TEXT UNIQUE NOT NULL,
            owner TEXT NOT NULL,
            name TEXT NOT NULL,
            description TEXT,
            address TEXT NOT NULL,
            postcode TEXT,
            cover_image TEXT,
            latitude REAL NOT NULL DEFAULT 0,
            longitude REAL NOT NULL DEFAULT 0,
            rate_per_hour REAL NOT NULL,
            rate_per_day REAL NOT NULL,
            average_rating REAL NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS parking_spot_availabilities (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            spot_id INTEGER NOT NULL REFERENCES parking_spots(id) ON DELETE CASCADE,
            day TEXT NOT NULL,
            start_time TEXT NOT NULL,
            end_time TEXT NOT NULL,
            UNIQUE(spot_id, day)
        )`,
		`CREATE TABLE IF NOT EXISTS parking_spot_features (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            spot_id INTEGER NOT NULL REFERENCES parking_spots(id) ON DELETE CASCADE,
            feature TEXT NOT NULL,
            UNIQUE(spot_id, feature)
        )`,
		`CREATE TABLE IF NOT EXISTS parking_spot_vehicle_capacity (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            spot_id INTEGER NOT NULL REFERENCES parking_spots(id) ON DELETE CASCADE,
            vehicle_type TEXT NOT NULL,
            capacity INTEGER NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS parking_spot_reviews (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            spot_id INTEGER NOT NULL REFERENCES parking_spots(id) ON DELETE CASCADE,
            reviewer TEXT NOT NULL,
            rating INTEGER NOT NULL,
            comments TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            booking_no TEXT UNIQUE NOT NULL,
            user_id TEXT NOT NULL,
            spot_id INTEGER NOT NULL,
            spot_name TEXT NOT NULL,
            vehicle TEXT NOT NULL,
            vehicle_no TEXT NOT NULL,
            start_time DATETIME NOT NULL,
            end_time DATETIME NOT NULL,
            amount REAL NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            payment_status TEXT NOT NULL DEFAULT 'pending',
            is_active BOOLEAN NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE INDEX IF NOT EXISTS idx_spots_owner ON parking_spots(owner)`,
		`CREATE INDEX IF NOT EXISTS idx_spots_rate ON parking_spots(rate_per_hour)`,
		`CREATE INDEX IF NOT EXISTS idx_spots_rating ON parking_spots(average_rating)`,
		`CREATE INDEX IF NOT EXISTS idx_availabilities_spot ON parking_spot_availabilities(spot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_features_spot ON parking_spot_features(spot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_capacity_spot ON parking_spot_vehicle_capacity(spot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_spot ON parking_spot_reviews(spot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_spot ON bookings(spot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("exec %q: %w", query[:40], err)
		}
	}
	return nil
}
