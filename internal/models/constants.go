package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// VehicleTypes maps wire keys to display labels.
var VehicleTypes = map[string]string{
	"SMALL":   "Small Car",
	"MEDIUM":  "Medium Car",
	"SUV":     "Large Car (SUV)",
	"BIKE":    "Bike",
	"TRUCK":   "Truck",
	"MINIBUS": "Minibus",
	"VAN":     "Van",
}

// ParkingFeatures maps wire keys to display labels.
var ParkingFeatures = map[string]string{
	"CCTV":                "CCTV",
	"EV_CHARGING":         "EV Charging",
	"SECURITY_LIGHTING":   "Security Lighting",
	"HANDICAP_ACCESSIBLE": "Handicap Accessible",
	"COVERED":             "Covered Parking",
	"GUARDS":              "Security Guards",
}

func IsVehicleType(key string) bool {
	_, ok := VehicleTypes[key]
	return ok
}

func IsParkingFeature(key string) bool {
	_, ok := ParkingFeatures[key]
	return ok
}

func IsBookingStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

const (
	// DefaultPageSize is the page size every list endpoint falls back to.
	DefaultPageSize = 5

	// MaxPageSize caps the limit parameter for all list endpoints.
	MaxPageSize = 50

	// DefaultSignedURLTTL is the lifetime of a signed file URL in seconds.
	DefaultSignedURLTTL = 60 * 60

	// WorkerQueueSize is the buffer size of the ratings worker queue.
	WorkerQueueSize = 1000
)
