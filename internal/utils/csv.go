package utils

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"carpso-backend/internal/domain"
)

var recordCSVHeader = []string{
	"record_id", "user_id", "lot_id", "spot_id", "start_time", "end_time",
	"duration_minutes", "cost", "status", "payment_method", "applied_pricing_rule",
}

// ParkingRecordsToCSV renders parking records as CSV for the history
// export. Values containing commas, quotes or newlines are quoted with
// internal quotes doubled; empty optional fields render as empty cells.
// An empty record set yields just the header row.
func ParkingRecordsToCSV(records []domain.ParkingRecord) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(recordCSVHeader)
	for _, r := range records {
		_ = w.Write([]string{
			r.RecordID,
			r.UserID,
			r.LotID,
			r.SpotID,
			r.StartTime.Format(time.RFC3339),
			formatTime(r.EndTime),
			formatInt(r.DurationMinutes),
			strconv.FormatFloat(r.Cost, 'f', 2, 64),
			string(r.Status),
			string(r.PaymentMethod),
			r.AppliedPricingRule,
		})
	}
	w.Flush()
	return buf.String()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
