package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medischedule/medischedule-server/internal/store"
)

func TestListPatients(t *testing.T) {
	router := newTestRouter(seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var patients []store.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patients))
	assert.Len(t, patients, 2)
	assert.Equal(t, "James Wilson", patients[0].Name)
}

func TestGetPatient(t *testing.T) {
	router := newTestRouter(seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/patients/pat-2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var patient store.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patient))
	assert.Equal(t, "Linda Chen", patient.Name)
	assert.Equal(t, store.RiskHigh, patient.RiskProfile)
}

func TestGetPatientNotFound(t *testing.T) {
	router := newTestRouter(seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/patients/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Patient not found", decodeMap(t, rec)["error"])
}

func TestUpdatePatientPartialMerge(t *testing.T) {
	router := newTestRouter(seededStore(t))

	req := httptest.NewRequest(http.MethodPatch, "/api/patients/pat-1",
		strings.NewReader(`{"notes":"Prefers morning visits","riskProfile":"Moderate"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var patient store.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patient))
	assert.Equal(t, "Prefers morning visits", patient.Notes)
	assert.Equal(t, store.RiskModerate, patient.RiskProfile)
	// Untouched fields survive the merge.
	assert.Equal(t, "James Wilson", patient.Name)
	assert.Equal(t, "james@example.com", patient.Email)
}

func TestUpdatePatientBadBody(t *testing.T) {
	router := newTestRouter(seededStore(t))

	req := httptest.NewRequest(http.MethodPatch, "/api/patients/pat-1", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePatientNotFound(t *testing.T) {
	router := newTestRouter(seededStore(t))

	req := httptest.NewRequest(http.MethodPatch, "/api/patients/ghost", strings.NewReader(`{"notes":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
