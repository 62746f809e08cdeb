package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"carpso-backend/internal/service"

	"github.com/gorilla/mux"
)

type startReservationRequest struct {
	UserID string `json:"user_id"`
	LotID  string `json:"lot_id"`
	SpotID string `json:"spot_id"`
}

func (s *Server) handleStartReservation(w http.ResponseWriter, r *http.Request) {
	var req startReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	view, err := s.reservationSvc.StartSession(r.Context(), callerID(r, req.UserID), req.LotID, req.SpotID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	view, err := s.reservationSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePointerDown(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if err := s.reservationSvc.PointerDown(r.Context(), sessionID); err != nil {
		writeErr(w, err)
		return
	}
	s.writeSession(w, r, sessionID)
}

type sliderValueRequest struct {
	Value float64 `json:"value"`
}

func (s *Server) handleSetValue(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	var req sliderValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}
	if err := s.reservationSvc.SetSliderValue(r.Context(), sessionID, req.Value); err != nil {
		writeErr(w, err)
		return
	}
	s.writeSession(w, r, sessionID)
}

func (s *Server) handlePointerUp(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	var req sliderValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}
	if err := s.reservationSvc.PointerUp(r.Context(), sessionID, req.Value); err != nil {
		writeErr(w, err)
		return
	}
	s.writeSession(w, r, sessionID)
}

func (s *Server) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if err := s.reservationSvc.CancelSession(r.Context(), sessionID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"cancelled": sessionID})
}

func (s *Server) handleCompleteReservation(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	record, err := s.reservationSvc.CompleteSession(r.Context(), sessionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// writeSession reports the session's state after an interaction. A session
// that confirmed or timed out during the interaction may already be gone;
// that is reported as finished rather than as an error.
func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	view, err := s.reservationSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"id": sessionID, "state": "finished"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}
