package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medischedule/medischedule-server/internal/store"
	"github.com/medischedule/medischedule-server/pkg/logging"
)

// AppointmentsHandler serves the appointment collection endpoints.
type AppointmentsHandler struct {
	store  store.Store
	logger *logging.Logger
}

// NewAppointmentsHandler creates a new appointments handler.
func NewAppointmentsHandler(st store.Store, logger *logging.Logger) *AppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{store: st, logger: logger}
}

// ListAppointments returns every appointment record.
// GET /api/appointments
func (h *AppointmentsHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.store.ListAppointments(r.Context())
	if err != nil {
		h.logger.Error("appointments: list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	respondJSON(w, http.StatusOK, appointments)
}

// CreateAppointment inserts a new appointment. The id is server-assigned;
// one supplied by the client is discarded.
// POST /api/appointments
func (h *AppointmentsHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var appt store.Appointment
	if err := json.Unmarshal(body, &appt); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if appt.PatientID == "" {
		respondError(w, http.StatusBadRequest, "patientId required")
		return
	}
	if appt.Date == "" {
		respondError(w, http.StatusBadRequest, "date required")
		return
	}
	if appt.Status == "" {
		appt.Status = store.AppointmentPending
	}
	if appt.Type == "" {
		appt.Type = store.TypeCheckUp
	}

	created, err := h.store.InsertAppointment(r.Context(), appt)
	if err != nil {
		h.logger.Error("appointments: insert failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateAppointment shallow-merges the request body into the appointment
// record. Any status may follow any other.
// PATCH /api/appointments/{appointmentID}
func (h *AppointmentsHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var update store.AppointmentUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.store.UpdateAppointment(r.Context(), id, update)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	if err != nil {
		h.logger.Error("appointments: update failed", "appointment_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	respondJSON(w, http.StatusOK, appt)
}
