package service

import (
	"context"
	"time"

	"carpso-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockPricingRuleRepo
type MockPricingRuleRepo struct {
	mock.Mock
}

func (m *MockPricingRuleRepo) Save(ctx context.Context, rule *domain.PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}
func (m *MockPricingRuleRepo) GetByID(ctx context.Context, ruleID string) (*domain.PricingRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PricingRule), args.Error(1)
}
func (m *MockPricingRuleRepo) List(ctx context.Context) ([]domain.PricingRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricingRule), args.Error(1)
}
func (m *MockPricingRuleRepo) Delete(ctx context.Context, ruleID string) error {
	args := m.Called(ctx, ruleID)
	return args.Error(0)
}

// MockUserPassRepo
type MockUserPassRepo struct {
	mock.Mock
}

func (m *MockUserPassRepo) Create(ctx context.Context, pass *domain.UserPass) error {
	args := m.Called(ctx, pass)
	return args.Error(0)
}
func (m *MockUserPassRepo) ListByUser(ctx context.Context, userID string) ([]domain.UserPass, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserPass), args.Error(1)
}
func (m *MockUserPassRepo) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]domain.UserPass, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserPass), args.Error(1)
}
func (m *MockUserPassRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.UserPass, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserPass), args.Error(1)
}

// MockParkingRecordRepo
type MockParkingRecordRepo struct {
	mock.Mock
}

func (m *MockParkingRecordRepo) Create(ctx context.Context, record *domain.ParkingRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockParkingRecordRepo) GetByID(ctx context.Context, recordID string) (*domain.ParkingRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingRecord), args.Error(1)
}
func (m *MockParkingRecordRepo) Update(ctx context.Context, record *domain.ParkingRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockParkingRecordRepo) List(ctx context.Context, filter domain.RecordFilter) ([]domain.ParkingRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingRecord), args.Error(1)
}
func (m *MockParkingRecordRepo) GetActiveByUserAndSpot(ctx context.Context, userID, spotID string) (*domain.ParkingRecord, error) {
	args := m.Called(ctx, userID, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingRecord), args.Error(1)
}

// MockParkingLotRepo
type MockParkingLotRepo struct {
	mock.Mock
}

func (m *MockParkingLotRepo) GetByID(ctx context.Context, lotID string) (*domain.ParkingLot, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingLot), args.Error(1)
}
func (m *MockParkingLotRepo) List(ctx context.Context) ([]domain.ParkingLot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingLot), args.Error(1)
}
func (m *MockParkingLotRepo) GetSpot(ctx context.Context, spotID string) (*domain.ParkingSpot, error) {
	args := m.Called(ctx, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSpot), args.Error(1)
}
func (m *MockParkingLotRepo) UpdateSpotStatus(ctx context.Context, spotID string, status domain.SpotStatus) error {
	args := m.Called(ctx, spotID, status)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySpotAvailable(ctx context.Context, userID, spotID string) error {
	args := m.Called(ctx, userID, spotID)
	return args.Error(0)
}
func (m *MockNotifier) SendPassExpiryReminder(ctx context.Context, user *domain.User, pass domain.ActivePass) error {
	args := m.Called(ctx, user, pass)
	return args.Error(0)
}
