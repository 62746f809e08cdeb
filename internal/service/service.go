package service

import (
	"context"
	"errors"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/pricing"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidPassDefinition = errors.New("rule is not a valid pass definition")
	ErrActiveRecordExists    = errors.New("user already has an active record for this spot")
	ErrRecordImmutable       = errors.New("record is already completed or cancelled")
	ErrAlreadyQueued         = errors.New("user is already queued for this spot")
	ErrSessionFinished       = errors.New("reservation session already finished")
)

type PricingService interface {
	// CalculateEstimatedCost never fails from rule evaluation; lookup
	// errors degrade to the fallback estimate.
	CalculateEstimatedCost(ctx context.Context, lotID string, durationMinutes int, userID string, tier domain.UserTier, now time.Time) (*pricing.Estimate, error)
	SavePricingRule(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error)
	DeletePricingRule(ctx context.Context, ruleID string) error
	ListPricingRules(ctx context.Context) ([]domain.PricingRule, error)
}

type PassService interface {
	PurchasePass(ctx context.Context, userID, passRuleID string) (*domain.UserPass, error)
	GetActiveUserPasses(ctx context.Context, userID string) ([]domain.ActivePass, error)
}

type RecordService interface {
	CreateParkingRecord(ctx context.Context, userID, lotID, spotID string) (*domain.ParkingRecord, error)
	CompleteParkingRecord(ctx context.Context, recordID string, endTime time.Time, costDetails pricing.Estimate, paymentMethod domain.PaymentMethod) (*domain.ParkingRecord, error)
	CancelParkingRecord(ctx context.Context, recordID string) (*domain.ParkingRecord, error)
	GetParkingRecord(ctx context.Context, recordID string) (*domain.ParkingRecord, error)
	GetParkingRecords(ctx context.Context, filter domain.RecordFilter) ([]domain.ParkingRecord, error)
	ExportParkingRecordsCSV(ctx context.Context, filter domain.RecordFilter) (string, error)
}

type QueueService interface {
	JoinQueue(ctx context.Context, userID, spotID string) (int, error)
	LeaveQueue(ctx context.Context, userID, spotID string) (bool, error)
	NotifyNextInQueue(ctx context.Context, spotID string) (*domain.QueueEntry, error)
	RemoveFirstFromQueue(ctx context.Context, spotID string) (*domain.QueueEntry, error)
	GetQueueLength(ctx context.Context, spotID string) int
	GetUserQueueStatus(ctx context.Context, userID string) []domain.QueuePosition
}

type ReservationService interface {
	StartSession(ctx context.Context, userID, lotID, spotID string) (*SessionView, error)
	PointerDown(ctx context.Context, sessionID string) error
	SetSliderValue(ctx context.Context, sessionID string, value float64) error
	PointerUp(ctx context.Context, sessionID string, value float64) error
	CancelSession(ctx context.Context, sessionID string) error
	CompleteSession(ctx context.Context, sessionID string) (*domain.ParkingRecord, error)
	GetSession(ctx context.Context, sessionID string) (*SessionView, error)
}

// NotificationService delivers out-of-band messages. Implementations must
// be safe to call from queue and job code paths; failures are logged by
// the implementation, not surfaced to callers' state machines.
type NotificationService interface {
	NotifySpotAvailable(ctx context.Context, userID, spotID string) error
	SendPassExpiryReminder(ctx context.Context, user *domain.User, pass domain.ActivePass) error
}
