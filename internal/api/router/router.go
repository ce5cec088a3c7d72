package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medischedule/medischedule-server/internal/assist"
	"github.com/medischedule/medischedule-server/internal/booking"
	"github.com/medischedule/medischedule-server/internal/calls"
	"github.com/medischedule/medischedule-server/internal/clinic"
	"github.com/medischedule/medischedule-server/internal/http/handlers"
	httpmiddleware "github.com/medischedule/medischedule-server/internal/http/middleware"
	"github.com/medischedule/medischedule-server/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	PatientsHandler     *handlers.PatientsHandler
	AppointmentsHandler *handlers.AppointmentsHandler
	CallLogsHandler     *handlers.CallLogsHandler
	CallGateway         *calls.Gateway
	BookingService      *booking.Service
	DashboardHandler    *clinic.DashboardHandler
	AssistHandler       *assist.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.CallGateway != nil {
			public.Post("/api/webhooks/vapi", cfg.CallGateway.HandleWebhook)
			public.Get("/api/webhooks/test", cfg.CallGateway.HandleWebhookTest)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Clinic data API
	r.Route("/api", func(api chi.Router) {
		if cfg.PatientsHandler != nil {
			api.Get("/patients", cfg.PatientsHandler.ListPatients)
			api.Get("/patients/{patientID}", cfg.PatientsHandler.GetPatient)
			api.Patch("/patients/{patientID}", cfg.PatientsHandler.UpdatePatient)
		}
		if cfg.AppointmentsHandler != nil {
			api.Get("/appointments", cfg.AppointmentsHandler.ListAppointments)
			api.Post("/appointments", cfg.AppointmentsHandler.CreateAppointment)
			api.Patch("/appointments/{appointmentID}", cfg.AppointmentsHandler.UpdateAppointment)
		}
		if cfg.CallLogsHandler != nil {
			api.Get("/call-logs", cfg.CallLogsHandler.ListCallLogs)
		}
		if cfg.DashboardHandler != nil {
			api.Get("/dashboard/stats", cfg.DashboardHandler.GetStats)
		}
		if cfg.CallGateway != nil {
			api.Post("/demo/vapi-call", cfg.CallGateway.HandleStartCall)
			api.Get("/demo/call/{callID}", cfg.CallGateway.HandleCallStatus)
			api.Get("/demo/calls", cfg.CallGateway.HandleListCalls)
		}
		if cfg.BookingService != nil {
			api.Post("/demo/call/{callID}/book", cfg.BookingService.HandleBook)
		}
		if cfg.AssistHandler != nil {
			api.Post("/assist/rag", cfg.AssistHandler.HandleRAG)
			api.Post("/assist/chat", cfg.AssistHandler.HandleChat)
			api.Get("/assist/documents", cfg.AssistHandler.HandleListDocuments)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
