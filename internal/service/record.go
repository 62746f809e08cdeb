package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/logger"
	"carpso-backend/internal/pricing"
	"carpso-backend/internal/repository"
	"carpso-backend/internal/utils"

	"github.com/google/uuid"
)

type recordService struct {
	recordRepo repository.ParkingRecordRepository
	now        func() time.Time
}

func NewRecordService(recordRepo repository.ParkingRecordRepository) RecordService {
	return &recordService{
		recordRepo: recordRepo,
		now:        time.Now,
	}
}

func (s *recordService) CreateParkingRecord(ctx context.Context, userID, lotID, spotID string) (*domain.ParkingRecord, error) {
	if userID == "" || lotID == "" || spotID == "" {
		return nil, fmt.Errorf("%w: user, lot and spot ids are required", ErrInvalidInput)
	}

	// One Active record per user and spot. A second create while the first
	// session is still open is a client bug, not a new session.
	existing, err := s.recordRepo.GetActiveByUserAndSpot(ctx, userID, spotID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: record %s", ErrActiveRecordExists, existing.RecordID)
	}

	record := &domain.ParkingRecord{
		RecordID:  uuid.NewString(),
		UserID:    userID,
		LotID:     lotID,
		SpotID:    spotID,
		StartTime: s.now(),
		Cost:      0,
		Status:    domain.RecordStatusActive,
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "parking record created",
		"record_id", record.RecordID, "user_id", userID, "spot_id", spotID)
	return record, nil
}

func (s *recordService) CompleteParkingRecord(ctx context.Context, recordID string, endTime time.Time, costDetails pricing.Estimate, paymentMethod domain.PaymentMethod) (*domain.ParkingRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.RecordStatusActive {
		return nil, fmt.Errorf("%w: record %s is %s", ErrRecordImmutable, recordID, record.Status)
	}

	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodWallet
	}
	if costDetails.IsCoveredByPass {
		paymentMethod = domain.PaymentMethodPass
	}

	duration := int(math.Round(endTime.Sub(record.StartTime).Minutes()))
	record.EndTime = &endTime
	record.DurationMinutes = &duration
	record.Cost = costDetails.Cost
	record.Status = domain.RecordStatusCompleted
	record.PaymentMethod = paymentMethod
	record.AppliedPricingRule = costDetails.AppliedRule

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "parking record completed",
		"record_id", record.RecordID, "duration_minutes", duration,
		"cost", record.Cost, "payment_method", record.PaymentMethod)
	return record, nil
}

func (s *recordService) CancelParkingRecord(ctx context.Context, recordID string) (*domain.ParkingRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.RecordStatusActive {
		return nil, fmt.Errorf("%w: record %s is %s", ErrRecordImmutable, recordID, record.Status)
	}

	now := s.now()
	record.EndTime = &now
	record.Cost = 0
	record.Status = domain.RecordStatusCancelled

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "parking record cancelled", "record_id", record.RecordID)
	return record, nil
}

func (s *recordService) GetParkingRecord(ctx context.Context, recordID string) (*domain.ParkingRecord, error) {
	return s.recordRepo.GetByID(ctx, recordID)
}

func (s *recordService) GetParkingRecords(ctx context.Context, filter domain.RecordFilter) ([]domain.ParkingRecord, error) {
	// The end date is inclusive through the whole day it names.
	if filter.EndDate != nil {
		end := endOfDay(*filter.EndDate)
		filter.EndDate = &end
	}
	return s.recordRepo.List(ctx, filter)
}

func (s *recordService) ExportParkingRecordsCSV(ctx context.Context, filter domain.RecordFilter) (string, error) {
	records, err := s.GetParkingRecords(ctx, filter)
	if err != nil {
		return "", err
	}
	return utils.ParkingRecordsToCSV(records), nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
