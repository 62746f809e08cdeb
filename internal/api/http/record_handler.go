package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/pricing"
	"carpso-backend/internal/service"

	"github.com/gorilla/mux"
)

type createRecordRequest struct {
	UserID string `json:"user_id"`
	LotID  string `json:"lot_id"`
	SpotID string `json:"spot_id"`
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	record, err := s.recordSvc.CreateParkingRecord(r.Context(), callerID(r, req.UserID), req.LotID, req.SpotID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

type completeRecordRequest struct {
	EndTime       *time.Time       `json:"end_time,omitempty"`
	CostDetails   pricing.Estimate `json:"cost_details"`
	PaymentMethod string           `json:"payment_method,omitempty"`
}

func (s *Server) handleCompleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID := mux.Vars(r)["recordId"]
	var req completeRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	end := time.Now()
	if req.EndTime != nil {
		end = *req.EndTime
	}
	record, err := s.recordSvc.CompleteParkingRecord(r.Context(), recordID, end, req.CostDetails, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCancelRecord(w http.ResponseWriter, r *http.Request) {
	recordID := mux.Vars(r)["recordId"]
	record, err := s.recordSvc.CancelParkingRecord(r.Context(), recordID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilterFromQuery(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	records, err := s.recordSvc.GetParkingRecords(r.Context(), filter)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilterFromQuery(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	csvOut, err := s.recordSvc.ExportParkingRecordsCSV(r.Context(), filter)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="parking_records.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csvOut))
}

func recordFilterFromQuery(r *http.Request) (domain.RecordFilter, error) {
	q := r.URL.Query()
	filter := domain.RecordFilter{
		UserID: q.Get("userId"),
		LotID:  q.Get("lotId"),
	}
	if v := q.Get("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("%w: startDate must be YYYY-MM-DD", service.ErrInvalidInput)
		}
		filter.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("%w: endDate must be YYYY-MM-DD", service.ErrInvalidInput)
		}
		filter.EndDate = &t
	}
	return filter, nil
}
