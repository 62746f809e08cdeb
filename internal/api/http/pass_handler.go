package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"carpso-backend/internal/service"
)

type purchasePassRequest struct {
	UserID     string `json:"user_id"`
	PassRuleID string `json:"pass_rule_id"`
}

func (s *Server) handlePurchasePass(w http.ResponseWriter, r *http.Request) {
	var req purchasePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	pass, err := s.passSvc.PurchasePass(r.Context(), callerID(r, req.UserID), req.PassRuleID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pass)
}

func (s *Server) handleActivePasses(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r, r.URL.Query().Get("userId"))
	passes, err := s.passSvc.GetActiveUserPasses(r.Context(), userID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, passes)
}
