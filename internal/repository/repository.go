package repository

import (
	"context"
	"errors"
	"time"

	"carpso-backend/internal/domain"
)

// ErrNotFound is returned when a rule, pass, record, lot or user does not
// exist. Repositories translate driver-level "no rows" into this.
var ErrNotFound = errors.New("not found")

type PricingRuleRepository interface {
	// Save upserts a rule by its rule id.
	Save(ctx context.Context, rule *domain.PricingRule) error
	GetByID(ctx context.Context, ruleID string) (*domain.PricingRule, error)
	// List returns every rule ordered by ascending priority; rules with
	// equal priority keep insertion order.
	List(ctx context.Context) ([]domain.PricingRule, error)
	Delete(ctx context.Context, ruleID string) error
}

type UserPassRepository interface {
	Create(ctx context.Context, pass *domain.UserPass) error
	ListByUser(ctx context.Context, userID string) ([]domain.UserPass, error)
	// ListActiveByUser returns the user's unexpired passes, soonest
	// expiry first.
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]domain.UserPass, error)
	// ListExpiringBetween feeds the pass-expiry reminder job.
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.UserPass, error)
}

type ParkingRecordRepository interface {
	Create(ctx context.Context, record *domain.ParkingRecord) error
	GetByID(ctx context.Context, recordID string) (*domain.ParkingRecord, error)
	Update(ctx context.Context, record *domain.ParkingRecord) error
	// List applies the filter and returns records newest start time first.
	List(ctx context.Context, filter domain.RecordFilter) ([]domain.ParkingRecord, error)
	// GetActiveByUserAndSpot finds the user's Active record on a spot, if
	// any. Backs the one-active-record-per-(user,spot) guard.
	GetActiveByUserAndSpot(ctx context.Context, userID, spotID string) (*domain.ParkingRecord, error)
}

type ParkingLotRepository interface {
	GetByID(ctx context.Context, lotID string) (*domain.ParkingLot, error)
	List(ctx context.Context) ([]domain.ParkingLot, error)
	GetSpot(ctx context.Context, spotID string) (*domain.ParkingSpot, error)
	UpdateSpotStatus(ctx context.Context, spotID string, status domain.SpotStatus) error
}

type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}
