package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MdSadiqMd/udp-sender/pkg/endpoint"
	"github.com/MdSadiqMd/udp-sender/pkg/transaction"
)

type SendRequest struct {
	IP      string `json:"ip"`
	Port    string `json:"port"`
	Message string `json:"message"`
}

type ValidateResponse struct {
	Valid   bool     `json:"valid"`
	Message string   `json:"message,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Hints   []string `json:"hints,omitempty"`
	Target  string   `json:"target,omitempty"`
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"session_id":     s.session.ID,
		"local_addr":     s.session.Transactor().LocalAddr().String(),
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	})
}

func (s *HTTPServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.session.Metrics()
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, m.Snapshot())
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.Write([]byte(m.ToPrometheus(s.session.ID)))
}

func (s *HTTPServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ep, err := endpoint.Validate(req.IP, req.Port, s.session.EndpointOptions())
	if err != nil {
		resp := ValidateResponse{Message: err.Error(), Kind: endpoint.KindOf(err).String()}
		var ve *endpoint.ValidationError
		if errors.As(err, &ve) {
			resp.Hints = ve.Hints
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Target: ep.String()})
}

func (s *HTTPServer) handleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.session.Do(r.Context(), req.Message, req.IP, req.Port)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeResult(w, r, statusFor(result.Kind), result)
}

func statusFor(kind transaction.OutcomeKind) int {
	switch kind {
	case transaction.OutcomeValidationFailed:
		return http.StatusUnprocessableEntity
	case transaction.OutcomeSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
