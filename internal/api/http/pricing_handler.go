package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/service"

	"github.com/gorilla/mux"
)

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lotID := q.Get("lotId")
	duration, err := strconv.Atoi(q.Get("durationMinutes"))
	if err != nil {
		writeErr(w, fmt.Errorf("%w: durationMinutes must be an integer", service.ErrInvalidInput))
		return
	}
	userID := callerID(r, q.Get("userId"))
	tier := domain.UserTier(q.Get("tier"))

	est, err := s.pricingSvc.CalculateEstimatedCost(r.Context(), lotID, duration, userID, tier, time.Now())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.pricingSvc.ListPricingRules(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleSaveRule(w http.ResponseWriter, r *http.Request) {
	var rule domain.PricingRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	saved, err := s.pricingSvc.SavePricingRule(r.Context(), &rule)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	ruleID := mux.Vars(r)["ruleId"]
	if err := s.pricingSvc.DeletePricingRule(r.Context(), ruleID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": ruleID})
}
