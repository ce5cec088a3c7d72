package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medischedule/medischedule-server/internal/calls"
	"github.com/medischedule/medischedule-server/internal/observability/metrics"
	"github.com/medischedule/medischedule-server/internal/store"
	"github.com/medischedule/medischedule-server/pkg/logging"
)

// ErrCallNotFound is returned when the referenced call was never tracked.
var ErrCallNotFound = errors.New("booking: call not found")

const defaultDurationMinutes = 30

// Service books follow-up appointments from completed AI calls. The
// transcript is summarized first; a summarizer failure downgrades to the
// simulated summary and never blocks the booking.
type Service struct {
	store        store.Store
	registry     *calls.Registry
	analyzer     calls.Analyzer
	analyzerName string
	logger       *logging.Logger
	metrics      *metrics.CallMetrics
	now          func() time.Time
}

// ServiceConfig configures the booking service. AnalyzerName labels the
// bookings metric ("static" or "gemini").
type ServiceConfig struct {
	Store        store.Store
	Registry     *calls.Registry
	Analyzer     calls.Analyzer
	AnalyzerName string
	Logger       *logging.Logger
	Metrics      *metrics.CallMetrics
}

// NewService creates the booking service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.AnalyzerName == "" {
		cfg.AnalyzerName = "static"
	}
	return &Service{
		store:        cfg.Store,
		registry:     cfg.Registry,
		analyzer:     cfg.Analyzer,
		analyzerName: cfg.AnalyzerName,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		now:          time.Now,
	}
}

// Request is the body of a booking call.
type Request struct {
	PatientID       string `json:"patientId"`
	Date            string `json:"date,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// Result is what a successful booking returns.
type Result struct {
	Appointment *store.Appointment `json:"appointment"`
	CallLog     *store.CallLog     `json:"callLog"`
	Summary     string             `json:"summary"`
}

// BookFollowUp turns a tracked call into a Follow-up appointment plus a
// call log entry for the given patient.
func (s *Service) BookFollowUp(ctx context.Context, callID string, req Request) (*Result, error) {
	record, ok := s.registry.Get(callID)
	if !ok {
		return nil, ErrCallNotFound
	}
	patient, err := s.store.GetPatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	transcript := strings.Join(record.Transcript, "\n")
	analyzerName := s.analyzerName
	analysis, err := s.analyzer.AnalyzeTranscript(ctx, transcript)
	if err != nil {
		s.logger.Warn("booking: transcript analysis failed, using fallback",
			"call_id", callID,
			"error", err,
		)
		analyzerName = "fallback"
		analysis = calls.Analysis{
			Summary:   calls.FallbackSummary,
			Sentiment: "Neutral",
		}
	}

	date := req.Date
	if date == "" {
		date = analysis.SuggestedDate
	}
	if date == "" {
		date = s.now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	}
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	appt, err := s.store.InsertAppointment(ctx, store.Appointment{
		PatientID:       patient.ID,
		PatientName:     patient.Name,
		Date:            date,
		DurationMinutes: duration,
		Status:          store.AppointmentScheduled,
		Type:            store.TypeFollowUp,
		Notes:           analysis.Summary,
		Transcription:   transcript,
		AISummary:       analysis.Summary,
	})
	if err != nil {
		return nil, fmt.Errorf("booking: insert appointment: %w", err)
	}

	callLog, err := s.store.InsertCallLog(ctx, store.CallLog{
		CallID:      callID,
		PatientID:   patient.ID,
		PatientName: patient.Name,
		PhoneNumber: record.PhoneNumber,
		Consent:     record.Consent,
		Transcript:  record.Transcript,
		Summary:     analysis.Summary,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("booking: insert call log: %w", err)
	}

	s.metrics.ObserveBooking(analyzerName)
	s.logger.Info("booking: follow-up created",
		"call_id", callID,
		"patient_id", patient.ID,
		"appointment_id", appt.ID,
	)
	return &Result{Appointment: appt, CallLog: callLog, Summary: analysis.Summary}, nil
}

// HandleBook is POST /api/demo/call/{callID}/book.
func (s *Service) HandleBook(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PatientID == "" {
		writeError(w, http.StatusBadRequest, "patientId required")
		return
	}

	result, err := s.BookFollowUp(r.Context(), callID, req)
	switch {
	case errors.Is(err, ErrCallNotFound):
		writeError(w, http.StatusNotFound, "Call not found")
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Patient not found")
		return
	case err != nil:
		s.logger.Error("booking: request failed", "call_id", callID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to book follow-up")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
