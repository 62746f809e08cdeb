package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/logger"
	"carpso-backend/internal/repository"
	"carpso-backend/internal/reservation"

	"github.com/google/uuid"
)

// SessionView is the externally visible snapshot of a reservation session.
type SessionView struct {
	ID       string            `json:"id"`
	UserID   string            `json:"user_id"`
	LotID    string            `json:"lot_id"`
	SpotID   string            `json:"spot_id"`
	State    reservation.State `json:"state"`
	Progress float64           `json:"progress"`
	TimeLeft int               `json:"time_left_seconds"`
	RecordID string            `json:"record_id,omitempty"`
}

type reservationService struct {
	sessions       *reservation.SessionManager
	lotRepo        repository.ParkingLotRepository
	userRepo       repository.UserRepository
	pricingSvc     PricingService
	recordSvc      RecordService
	queueSvc       QueueService
	timeoutSeconds int
	now            func() time.Time

	mu      sync.Mutex
	records map[string]string // sessionID -> recordID, set on confirm
}

func NewReservationService(
	sessions *reservation.SessionManager,
	lotRepo repository.ParkingLotRepository,
	userRepo repository.UserRepository,
	pricingSvc PricingService,
	recordSvc RecordService,
	queueSvc QueueService,
	timeoutSeconds int,
) ReservationService {
	if timeoutSeconds <= 0 {
		timeoutSeconds = reservation.SpotTimeoutSeconds
	}
	return &reservationService{
		sessions:       sessions,
		lotRepo:        lotRepo,
		userRepo:       userRepo,
		pricingSvc:     pricingSvc,
		recordSvc:      recordSvc,
		queueSvc:       queueSvc,
		timeoutSeconds: timeoutSeconds,
		now:            time.Now,
		records:        make(map[string]string),
	}
}

// StartSession puts the spot on hold and starts the confirmation
// countdown. The user must drag the confirmation control past the
// threshold before the countdown expires, else the hold is released and
// the next queued user is notified.
func (s *reservationService) StartSession(ctx context.Context, userID, lotID, spotID string) (*SessionView, error) {
	if userID == "" || lotID == "" || spotID == "" {
		return nil, fmt.Errorf("%w: user, lot and spot ids are required", ErrInvalidInput)
	}

	if _, err := s.lotRepo.GetSpot(ctx, spotID); err != nil {
		return nil, err
	}
	if err := s.lotRepo.UpdateSpotStatus(ctx, spotID, domain.SpotStatusHeld); err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	timer := reservation.NewConfirmationTimer(s.timeoutSeconds,
		func() { s.onConfirm(sessionID) },
		func() { s.onTimeout(sessionID) },
	)
	session := &reservation.Session{
		ID:        sessionID,
		UserID:    userID,
		LotID:     lotID,
		SpotID:    spotID,
		Timer:     timer,
		CreatedAt: s.now(),
	}
	s.sessions.Add(session)

	logger.InfoContext(ctx, "reservation session started",
		"session_id", sessionID, "user_id", userID, "spot_id", spotID,
		"timeout_seconds", s.timeoutSeconds)
	return s.view(session), nil
}

func (s *reservationService) PointerDown(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return ErrSessionFinished
	}
	session.Timer.PointerDown()
	return nil
}

func (s *reservationService) SetSliderValue(ctx context.Context, sessionID string, value float64) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return ErrSessionFinished
	}
	session.Timer.SetValue(value)
	return nil
}

func (s *reservationService) PointerUp(ctx context.Context, sessionID string, value float64) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return ErrSessionFinished
	}
	session.Timer.PointerUp(value)
	return nil
}

// CancelSession tears the session down without charging the user: the
// timer is cancelled so no callback can fire late, the hold is released
// and any open record for the hold is voided.
func (s *reservationService) CancelSession(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return ErrSessionFinished
	}
	session.Timer.Cancel()
	s.sessions.Remove(sessionID)

	if recordID, ok := s.takeRecord(sessionID); ok {
		if _, err := s.recordSvc.CancelParkingRecord(ctx, recordID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			logger.ErrorContext(ctx, "cancelling reservation record failed", "record_id", recordID, "error", err)
		}
	}
	s.releaseSpot(ctx, session.SpotID)

	logger.InfoContext(ctx, "reservation session cancelled", "session_id", sessionID)
	return nil
}

// CompleteSession ends a confirmed session: the final cost is resolved
// from the actual parked duration, the record is completed and the spot
// goes back to the queue.
func (s *reservationService) CompleteSession(ctx context.Context, sessionID string) (*domain.ParkingRecord, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionFinished
	}
	if session.Timer.State() != reservation.StateConfirmed {
		return nil, fmt.Errorf("%w: session %s is %s", ErrSessionFinished, sessionID, session.Timer.State())
	}
	// The mapping is consumed only after the record completes, so a
	// failed attempt leaves the session retryable.
	recordID, ok := s.peekRecord(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: session %s has no open record", ErrSessionFinished, sessionID)
	}

	open, err := s.recordSvc.GetParkingRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	end := s.now()

	tier := domain.TierBasic
	if user, err := s.userRepo.GetByID(ctx, session.UserID); err == nil {
		tier = user.Tier
	}
	duration := int(end.Sub(open.StartTime).Minutes())
	if duration < 1 {
		duration = 1
	}
	estimate, err := s.pricingSvc.CalculateEstimatedCost(ctx, session.LotID, duration, session.UserID, tier, end)
	if err != nil {
		return nil, err
	}

	completed, err := s.recordSvc.CompleteParkingRecord(ctx, recordID, end, *estimate, domain.PaymentMethodWallet)
	if err != nil {
		return nil, err
	}

	s.takeRecord(sessionID)
	session.Timer.Cancel()
	s.sessions.Remove(sessionID)
	s.releaseSpot(ctx, session.SpotID)

	logger.InfoContext(ctx, "reservation session completed",
		"session_id", sessionID, "record_id", completed.RecordID, "cost", completed.Cost)
	return completed, nil
}

func (s *reservationService) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionFinished
	}
	return s.view(session), nil
}

// onConfirm runs off the ticker goroutine when the user beats the
// countdown: the hold becomes an Active parking record and the spot is
// occupied.
func (s *reservationService) onConfirm(sessionID string) {
	ctx := context.Background()
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}

	record, err := s.recordSvc.CreateParkingRecord(ctx, session.UserID, session.LotID, session.SpotID)
	if err != nil {
		logger.Error("confirmed reservation could not open a record",
			"session_id", sessionID, "error", err)
		s.sessions.Remove(sessionID)
		s.releaseSpot(ctx, session.SpotID)
		return
	}
	s.setRecord(sessionID, record.RecordID)

	if err := s.lotRepo.UpdateSpotStatus(ctx, session.SpotID, domain.SpotStatusOccupied); err != nil {
		logger.Error("marking spot occupied failed", "spot_id", session.SpotID, "error", err)
	}
	logger.Info("reservation confirmed",
		"session_id", sessionID, "record_id", record.RecordID, "spot_id", session.SpotID)
}

// onTimeout runs off the ticker goroutine when the countdown expires
// unconfirmed: the hold is released and the next waiter, if any, is told
// the spot is free.
func (s *reservationService) onTimeout(sessionID string) {
	ctx := context.Background()
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.sessions.Remove(sessionID)
	s.releaseSpot(ctx, session.SpotID)
	logger.Info("reservation session timed out", "session_id", sessionID, "spot_id", session.SpotID)
}

// releaseSpot frees the spot and notifies the head of its queue. Lookup
// and notification failures are logged; the session teardown proceeds.
func (s *reservationService) releaseSpot(ctx context.Context, spotID string) {
	if err := s.lotRepo.UpdateSpotStatus(ctx, spotID, domain.SpotStatusAvailable); err != nil {
		logger.ErrorContext(ctx, "releasing spot failed", "spot_id", spotID, "error", err)
	}
	if _, err := s.queueSvc.NotifyNextInQueue(ctx, spotID); err != nil {
		logger.ErrorContext(ctx, "queue notify after release failed", "spot_id", spotID, "error", err)
	}
}

func (s *reservationService) view(session *reservation.Session) *SessionView {
	s.mu.Lock()
	recordID := s.records[session.ID]
	s.mu.Unlock()
	return &SessionView{
		ID:       session.ID,
		UserID:   session.UserID,
		LotID:    session.LotID,
		SpotID:   session.SpotID,
		State:    session.Timer.State(),
		Progress: session.Timer.Progress(),
		TimeLeft: session.Timer.TimeLeft(),
		RecordID: recordID,
	}
}

func (s *reservationService) setRecord(sessionID, recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sessionID] = recordID
}

func (s *reservationService) peekRecord(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recordID, ok := s.records[sessionID]
	return recordID, ok
}

func (s *reservationService) takeRecord(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recordID, ok := s.records[sessionID]
	delete(s.records, sessionID)
	return recordID, ok
}
