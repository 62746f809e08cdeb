package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/pricing"
	"carpso-backend/internal/queue"
	"carpso-backend/internal/repository"
	"carpso-backend/internal/security"
	"carpso-backend/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, userID string) string {
	t.Helper()
	claims := security.UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// MockPricingSvc
type MockPricingSvc struct {
	mock.Mock
}

func (m *MockPricingSvc) CalculateEstimatedCost(ctx context.Context, lotID string, durationMinutes int, userID string, tier domain.UserTier, now time.Time) (*pricing.Estimate, error) {
	args := m.Called(ctx, lotID, durationMinutes, userID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Estimate), args.Error(1)
}
func (m *MockPricingSvc) SavePricingRule(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PricingRule), args.Error(1)
}
func (m *MockPricingSvc) DeletePricingRule(ctx context.Context, ruleID string) error {
	args := m.Called(ctx, ruleID)
	return args.Error(0)
}
func (m *MockPricingSvc) ListPricingRules(ctx context.Context) ([]domain.PricingRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricingRule), args.Error(1)
}

// MockRecordSvc
type MockRecordSvc struct {
	mock.Mock
}

func (m *MockRecordSvc) CreateParkingRecord(ctx context.Context, userID, lotID, spotID string) (*domain.ParkingRecord, error) {
	args := m.Called(ctx, userID, lotID, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingRecord), args.Error(1)
}
func (m *MockRecordSvc) CompleteParkingRecord(ctx context.Context, recordID string, endTime time.Time, costDetails pricing.Estimate, paymentMethod domain.PaymentMethod) (*domain.ParkingRecord, error) {
	args := m.Called(ctx, recordID, endTime, costDetails, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingRecord), args.Error(1)
}
func (m *MockRecordSvc) CancelParkingRecord(ctx context.Context, recordID string) (*domain.ParkingRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingRecord), args.Error(1)
}
func (m *MockRecordSvc) GetParkingRecord(ctx context.Context, recordID string) (*domain.ParkingRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingRecord), args.Error(1)
}
func (m *MockRecordSvc) GetParkingRecords(ctx context.Context, filter domain.RecordFilter) ([]domain.ParkingRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingRecord), args.Error(1)
}
func (m *MockRecordSvc) ExportParkingRecordsCSV(ctx context.Context, filter domain.RecordFilter) (string, error) {
	args := m.Called(ctx, filter)
	return args.String(0), args.Error(1)
}

func newTestServer(pricingSvc service.PricingService, recordSvc service.RecordService) *Server {
	queueSvc := service.NewQueueService(queue.NewManager(), nil)
	return NewServer(pricingSvc, nil, recordSvc, queueSvc, nil, security.NewTokenManager(testSecret))
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(new(MockPricingSvc), new(MockRecordSvc))
	router := srv.Router()

	t.Run("Missing Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/pricing/rules", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/pricing/rules", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Health Check Is Public", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandleEstimate(t *testing.T) {
	pricingSvc := new(MockPricingSvc)
	srv := newTestServer(pricingSvc, new(MockRecordSvc))
	router := srv.Router()
	token := signToken(t, "user_1")

	pricingSvc.On("CalculateEstimatedCost", mock.Anything, "lot_A", 90, "user_1", domain.TierBasic).
		Return(&pricing.Estimate{Cost: 9.0, AppliedRule: "Standard Rate"}, nil)

	req := httptest.NewRequest("GET", "/api/v1/pricing/estimate?lotId=lot_A&durationMinutes=90&tier=Basic", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var est pricing.Estimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &est))
	assert.Equal(t, 9.0, est.Cost)
	assert.Equal(t, "Standard Rate", est.AppliedRule)
}

func TestHandleEstimate_BadDuration(t *testing.T) {
	srv := newTestServer(new(MockPricingSvc), new(MockRecordSvc))
	router := srv.Router()

	req := httptest.NewRequest("GET", "/api/v1/pricing/estimate?lotId=lot_A&durationMinutes=abc", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user_1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestHandleJoinQueue(t *testing.T) {
	srv := newTestServer(new(MockPricingSvc), new(MockRecordSvc))
	router := srv.Router()
	token := signToken(t, "user_1")

	join := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/v1/queues/spot_1/join", strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := join()
	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["position"])

	// Duplicate join conflicts.
	rec = join()
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already queued")
}

func TestHandleCompleteRecord_NotFound(t *testing.T) {
	recordSvc := new(MockRecordSvc)
	srv := newTestServer(new(MockPricingSvc), recordSvc)
	router := srv.Router()

	recordSvc.On("CompleteParkingRecord", mock.Anything, "rec_missing", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrNotFound)

	req := httptest.NewRequest("POST", "/api/v1/records/rec_missing/complete", strings.NewReader(`{"cost_details":{"cost":1.5}}`))
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user_1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleExportRecords(t *testing.T) {
	recordSvc := new(MockRecordSvc)
	srv := newTestServer(new(MockPricingSvc), recordSvc)
	router := srv.Router()

	recordSvc.On("ExportParkingRecordsCSV", mock.Anything, mock.Anything).
		Return("record_id,user_id\nrec_1,user_1\n", nil)

	req := httptest.NewRequest("GET", "/api/v1/records/export?userId=user_1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user_1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "rec_1")
}
