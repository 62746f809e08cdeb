// Package http exposes the service over a JSON REST surface.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"carpso-backend/internal/repository"
	"carpso-backend/internal/security"
	"carpso-backend/internal/service"

	"github.com/gorilla/mux"
)

// Server bundles the handlers and builds the route table.
type Server struct {
	pricingSvc     service.PricingService
	passSvc        service.PassService
	recordSvc      service.RecordService
	queueSvc       service.QueueService
	reservationSvc service.ReservationService
	tokens         security.TokenManager
}

func NewServer(
	pricingSvc service.PricingService,
	passSvc service.PassService,
	recordSvc service.RecordService,
	queueSvc service.QueueService,
	reservationSvc service.ReservationService,
	tokens security.TokenManager,
) *Server {
	return &Server{
		pricingSvc:     pricingSvc,
		passSvc:        passSvc,
		recordSvc:      recordSvc,
		queueSvc:       queueSvc,
		reservationSvc: reservationSvc,
		tokens:         tokens,
	}
}

// Router builds the full route table. Every route except the health check
// sits behind bearer-token auth.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/pricing/estimate", s.handleEstimate).Methods("GET")
	api.HandleFunc("/pricing/rules", s.handleListRules).Methods("GET")
	api.HandleFunc("/pricing/rules", s.handleSaveRule).Methods("POST")
	api.HandleFunc("/pricing/rules/{ruleId}", s.handleDeleteRule).Methods("DELETE")

	api.HandleFunc("/passes/purchase", s.handlePurchasePass).Methods("POST")
	api.HandleFunc("/passes/active", s.handleActivePasses).Methods("GET")

	api.HandleFunc("/records", s.handleCreateRecord).Methods("POST")
	api.HandleFunc("/records", s.handleListRecords).Methods("GET")
	api.HandleFunc("/records/export", s.handleExportRecords).Methods("GET")
	api.HandleFunc("/records/{recordId}/complete", s.handleCompleteRecord).Methods("POST")
	api.HandleFunc("/records/{recordId}/cancel", s.handleCancelRecord).Methods("POST")

	api.HandleFunc("/queues/{spotId}/join", s.handleJoinQueue).Methods("POST")
	api.HandleFunc("/queues/{spotId}/leave", s.handleLeaveQueue).Methods("POST")
	api.HandleFunc("/queues/{spotId}/notify-next", s.handleNotifyNext).Methods("POST")
	api.HandleFunc("/queues/{spotId}/pop", s.handlePopQueue).Methods("POST")
	api.HandleFunc("/queues/{spotId}/length", s.handleQueueLength).Methods("GET")
	api.HandleFunc("/queues/status", s.handleQueueStatus).Methods("GET")

	api.HandleFunc("/reservations/start", s.handleStartReservation).Methods("POST")
	api.HandleFunc("/reservations/{sessionId}", s.handleGetReservation).Methods("GET")
	api.HandleFunc("/reservations/{sessionId}/pointer-down", s.handlePointerDown).Methods("POST")
	api.HandleFunc("/reservations/{sessionId}/value", s.handleSetValue).Methods("POST")
	api.HandleFunc("/reservations/{sessionId}/pointer-up", s.handlePointerUp).Methods("POST")
	api.HandleFunc("/reservations/{sessionId}/cancel", s.handleCancelReservation).Methods("POST")
	api.HandleFunc("/reservations/{sessionId}/complete", s.handleCompleteReservation).Methods("POST")

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps service sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrSessionFinished):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyQueued),
		errors.Is(err, service.ErrActiveRecordExists),
		errors.Is(err, service.ErrRecordImmutable):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidPassDefinition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
