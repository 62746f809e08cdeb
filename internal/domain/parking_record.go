package domain

import "time"

type RecordStatus string

const (
	RecordStatusActive    RecordStatus = "Active"
	RecordStatusCompleted RecordStatus = "Completed"
	RecordStatusCancelled RecordStatus = "Cancelled"
)

type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "Wallet"
	PaymentMethodCard   PaymentMethod = "Card"
	PaymentMethodCash   PaymentMethod = "Cash"
	PaymentMethodPass   PaymentMethod = "Pass"
)

// ParkingRecord is one parking session in the ledger. A record is created
// Active with zero cost, and is mutated exactly once when it is completed
// or cancelled. Cost is always >= 0.
type ParkingRecord struct {
	RecordID           string        `json:"record_id"`
	UserID             string        `json:"user_id"`
	LotID              string        `json:"lot_id"`
	SpotID             string        `json:"spot_id"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            *time.Time    `json:"end_time,omitempty"`
	DurationMinutes    *int          `json:"duration_minutes,omitempty"`
	Cost               float64       `json:"cost"`
	Status             RecordStatus  `json:"status"`
	PaymentMethod      PaymentMethod `json:"payment_method,omitempty"`
	AppliedPricingRule string        `json:"applied_pricing_rule,omitempty"`
}

// RecordFilter narrows ledger queries. LotID "all" or "" means no lot
// filter. EndDate is inclusive through 23:59:59.999 of that day.
type RecordFilter struct {
	UserID    string
	LotID     string
	StartDate *time.Time
	EndDate   *time.Time
}
