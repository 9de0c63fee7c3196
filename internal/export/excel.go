// Package export renders booking reports as Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"parkify/internal/models"
)

const sheetName = "Bookings"

var reportHeaders = []string{
	"Booking No", "User", "Spot", "Vehicle", "Vehicle No",
	"Start", "End", "Amount", "Status", "Payment",
}

// BookingsReport renders bookings into an xlsx workbook and returns its bytes.
func BookingsReport(bookings []models.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, booking := range bookings {
		row := rowIdx + 2
		vehicle := booking.Vehicle
		if label, ok := models.VehicleTypes[booking.Vehicle]; ok {
			vehicle = label
		}
		values := []interface{}{
			booking.BookingNo,
			booking.UserID,
			booking.SpotName,
			vehicle,
			booking.VehicleNo,
			booking.StartTime.Format(time.RFC3339),
			booking.EndTime.Format(time.RFC3339),
			booking.Amount,
			booking.Status,
			booking.PaymentStatus,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 24)
	_ = f.SetColWidth(sheetName, "B", "E", 18)
	_ = f.SetColWidth(sheetName, "F", "G", 22)
	_ = f.SetColWidth(sheetName, "H", "J", 12)

	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns a timestamped name for an exported report.
func FileName(now time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", now.Format("2006-01-02_150405"))
}
