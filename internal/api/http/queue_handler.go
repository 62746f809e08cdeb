package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/service"

	"github.com/gorilla/mux"
)

type queueRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleJoinQueue(w http.ResponseWriter, r *http.Request) {
	spotID := mux.Vars(r)["spotId"]
	var req queueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	position, err := s.queueSvc.JoinQueue(r.Context(), callerID(r, req.UserID), spotID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"spot_id": spotID, "position": position})
}

func (s *Server) handleLeaveQueue(w http.ResponseWriter, r *http.Request) {
	spotID := mux.Vars(r)["spotId"]
	var req queueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	removed, err := s.queueSvc.LeaveQueue(r.Context(), callerID(r, req.UserID), spotID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleNotifyNext(w http.ResponseWriter, r *http.Request) {
	spotID := mux.Vars(r)["spotId"]
	entry, err := s.queueSvc.NotifyNextInQueue(r.Context(), spotID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusOK, map[string]any{"entry": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}

func (s *Server) handlePopQueue(w http.ResponseWriter, r *http.Request) {
	spotID := mux.Vars(r)["spotId"]
	entry, err := s.queueSvc.RemoveFirstFromQueue(r.Context(), spotID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}

func (s *Server) handleQueueLength(w http.ResponseWriter, r *http.Request) {
	spotID := mux.Vars(r)["spotId"]
	writeJSON(w, http.StatusOK, map[string]any{
		"spot_id": spotID,
		"length":  s.queueSvc.GetQueueLength(r.Context(), spotID),
	})
}

func (s *Server) handleQueueStatus(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r, r.URL.Query().Get("userId"))
	positions := s.queueSvc.GetUserQueueStatus(r.Context(), userID)
	if positions == nil {
		positions = []domain.QueuePosition{}
	}
	writeJSON(w, http.StatusOK, positions)
}
