package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/medischedule/medischedule-server/internal/store"
	"github.com/medischedule/medischedule-server/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

func seededStore(t *testing.T) store.Store {
	t.Helper()
	st := store.NewMemoryStore()
	_, err := st.SeedIfEmpty(context.Background(),
		[]store.Patient{
			{ID: "pat-1", Name: "James Wilson", Email: "james@example.com", Phone: "+15550100", RiskProfile: store.RiskLow},
			{ID: "pat-2", Name: "Linda Chen", Email: "linda@example.com", Phone: "+15550101", RiskProfile: store.RiskHigh},
		},
		[]store.Appointment{
			{ID: "appt-1", PatientID: "pat-1", PatientName: "James Wilson", Date: "2026-07-01T09:00:00Z", DurationMinutes: 30, Status: store.AppointmentScheduled, Type: store.TypeCheckUp},
		},
	)
	require.NoError(t, err)
	return st
}

func newTestRouter(st store.Store) http.Handler {
	r := chi.NewRouter()
	patients := NewPatientsHandler(st, testLogger())
	appointments := NewAppointmentsHandler(st, testLogger())
	callLogs := NewCallLogsHandler(st, testLogger())

	r.Get("/api/patients", patients.ListPatients)
	r.Get("/api/patients/{patientID}", patients.GetPatient)
	r.Patch("/api/patients/{patientID}", patients.UpdatePatient)
	r.Get("/api/appointments", appointments.ListAppointments)
	r.Post("/api/appointments", appointments.CreateAppointment)
	r.Patch("/api/appointments/{appointmentID}", appointments.UpdateAppointment)
	r.Get("/api/call-logs", callLogs.ListCallLogs)
	return r
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
