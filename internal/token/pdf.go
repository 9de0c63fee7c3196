// Package token renders printable parking tokens for confirmed bookings.
package token

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"parkify/internal/models"
)

// ParkingToken renders a booking into a one-page PDF token and returns
// its bytes together with a download filename.
func ParkingToken(booking *models.Booking) ([]byte, string, error) {
	if booking == nil {
		return nil, "", fmt.Errorf("booking is nil")
	}

	vehicle := booking.Vehicle
	if label, ok := models.VehicleTypes[booking.Vehicle]; ok {
		vehicle = label
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Parking Token", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PARKING TOKEN")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking No : %s", booking.BookingNo),
		fmt.Sprintf("Spot       : %s", booking.SpotName),
		fmt.Sprintf("Vehicle    : %s", vehicle),
		fmt.Sprintf("Vehicle No : %s", booking.VehicleNo),
		fmt.Sprintf("From       : %s", booking.StartTime.Format("02 Jan 2006 15:04")),
		fmt.Sprintf("To         : %s", booking.EndTime.Format("02 Jan 2006 15:04")),
		fmt.Sprintf("Amount     : %.2f", booking.Amount),
		fmt.Sprintf("Status     : %s", booking.Status),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Show this token at the parking entrance. Valid only for the vehicle and time window above.", "", "", false)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Issued %s", time.Now().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render token: %w", err)
	}

	filename := fmt.Sprintf("TOKEN_%s.pdf", booking.BookingNo)
	return buf.Bytes(), filename, nil
}
