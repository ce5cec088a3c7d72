package clinic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/medischedule/medischedule-server/internal/store"
	"github.com/medischedule/medischedule-server/pkg/logging"
)

// RiskBreakdown counts patients per risk bucket.
type RiskBreakdown struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
}

// AppointmentStats counts appointments by status plus today's schedule.
type AppointmentStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Today     int `json:"today"`
}

// CallStats summarizes the call log.
type CallStats struct {
	Total           int `json:"total"`
	ConsentApproved int `json:"consentApproved"`
	ConsentDenied   int `json:"consentDenied"`
}

// DashboardStats is the aggregate the admin dashboard renders.
type DashboardStats struct {
	TotalPatients int              `json:"totalPatients"`
	RiskBreakdown RiskBreakdown    `json:"riskBreakdown"`
	Appointments  AppointmentStats `json:"appointments"`
	Calls         CallStats        `json:"calls"`
	GeneratedAt   string           `json:"generatedAt"`
}

// StatsService computes dashboard aggregates by scanning the store. The
// collections are demo-sized, so a full scan per request is fine.
type StatsService struct {
	store store.Store
	now   func() time.Time
}

// NewStatsService creates a store-backed stats service.
func NewStatsService(st store.Store) *StatsService {
	return &StatsService{store: st, now: time.Now}
}

// Compute scans all three collections and aggregates the dashboard stats.
func (s *StatsService) Compute(ctx context.Context) (*DashboardStats, error) {
	patients, err := s.store.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("clinic: list patients: %w", err)
	}
	appointments, err := s.store.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("clinic: list appointments: %w", err)
	}
	callLogs, err := s.store.ListCallLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("clinic: list call logs: %w", err)
	}

	now := s.now().UTC()
	stats := &DashboardStats{
		TotalPatients: len(patients),
		GeneratedAt:   now.Format(time.RFC3339),
	}

	for _, p := range patients {
		switch p.RiskProfile {
		case store.RiskHigh:
			stats.RiskBreakdown.High++
		case store.RiskModerate:
			stats.RiskBreakdown.Moderate++
		default:
			stats.RiskBreakdown.Low++
		}
	}

	today := now.Format("2006-01-02")
	stats.Appointments.Total = len(appointments)
	for _, a := range appointments {
		switch a.Status {
		case store.AppointmentPending:
			stats.Appointments.Pending++
		case store.AppointmentScheduled:
			stats.Appointments.Scheduled++
		case store.AppointmentCompleted:
			stats.Appointments.Completed++
		case store.AppointmentCancelled:
			stats.Appointments.Cancelled++
		}
		if when, err := time.Parse(time.RFC3339, a.Date); err == nil {
			if when.UTC().Format("2006-01-02") == today {
				stats.Appointments.Today++
			}
		}
	}

	stats.Calls.Total = len(callLogs)
	for _, c := range callLogs {
		switch c.Consent {
		case "approved":
			stats.Calls.ConsentApproved++
		case "denied":
			stats.Calls.ConsentDenied++
		}
	}

	return stats, nil
}

// DashboardHandler serves the dashboard stats JSON.
type DashboardHandler struct {
	stats  *StatsService
	logger *logging.Logger
}

// NewDashboardHandler creates the handler.
func NewDashboardHandler(stats *StatsService, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{stats: stats, logger: logger}
}

// GetStats is GET /api/dashboard/stats.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Compute(r.Context())
	if err != nil {
		h.logger.Error("dashboard: failed to compute stats", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to compute stats"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}
