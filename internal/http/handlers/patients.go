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

// PatientsHandler serves the patient collection endpoints.
type PatientsHandler struct {
	store  store.Store
	logger *logging.Logger
}

// NewPatientsHandler creates a new patients handler.
func NewPatientsHandler(st store.Store, logger *logging.Logger) *PatientsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PatientsHandler{store: st, logger: logger}
}

// ListPatients returns every patient record.
// GET /api/patients
func (h *PatientsHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.store.ListPatients(r.Context())
	if err != nil {
		h.logger.Error("patients: list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list patients")
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

// GetPatient returns one patient by id.
// GET /api/patients/{patientID}
func (h *PatientsHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	patient, err := h.store.GetPatient(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}
	if err != nil {
		h.logger.Error("patients: get failed", "patient_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load patient")
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

// UpdatePatient shallow-merges the request body into the patient record
// and returns the merged record.
// PATCH /api/patients/{patientID}
func (h *PatientsHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var update store.PatientUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patient, err := h.store.UpdatePatient(r.Context(), id, update)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}
	if err != nil {
		h.logger.Error("patients: update failed", "patient_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update patient")
		return
	}
	respondJSON(w, http.StatusOK, patient)
}
