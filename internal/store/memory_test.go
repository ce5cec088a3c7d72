package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	patients := []Patient{
		{ID: "p1", Name: "James Smith", Email: "james@email.com", Phone: "+1-555-0100", RiskProfile: RiskHigh, Insurance: "Aetna"},
		{ID: "p2", Name: "Mary Jones", Email: "mary@email.com", Phone: "+1-555-0101", RiskProfile: RiskLow},
	}
	appointments := []Appointment{
		{ID: "a1", PatientID: "p1", PatientName: "James Smith", Date: "2026-09-01T09:00:00Z",
			DurationMinutes: 30, Status: AppointmentScheduled, Type: TypeCheckUp, Notes: "Routine check-up - hypertension"},
	}
	seeded, err := s.SeedIfEmpty(context.Background(), patients, appointments)
	require.NoError(t, err)
	require.True(t, seeded)
	return s
}

func TestSeedIfEmptyIsOneShot(t *testing.T) {
	s := seededMemoryStore(t)
	seeded, err := s.SeedIfEmpty(context.Background(), []Patient{{ID: "px"}}, nil)
	require.NoError(t, err)
	assert.False(t, seeded, "second seed should be a no-op")

	patients, err := s.ListPatients(context.Background())
	require.NoError(t, err)
	assert.Len(t, patients, 2)
}

func TestGetPatientNotFound(t *testing.T) {
	s := seededMemoryStore(t)
	_, err := s.GetPatient(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePatientPartialMerge(t *testing.T) {
	s := seededMemoryStore(t)
	ctx := context.Background()

	before, err := s.GetPatient(ctx, "p1")
	require.NoError(t, err)

	phone := "+1-555-9999"
	updated, err := s.UpdatePatient(ctx, "p1", PatientUpdate{Phone: &phone})
	require.NoError(t, err)

	assert.Equal(t, phone, updated.Phone)
	// Every untouched field survives the merge.
	assert.Equal(t, before.Name, updated.Name)
	assert.Equal(t, before.Email, updated.Email)
	assert.Equal(t, before.RiskProfile, updated.RiskProfile)
	assert.Equal(t, before.Insurance, updated.Insurance)
}

func TestUpdateAppointmentStatusOnly(t *testing.T) {
	s := seededMemoryStore(t)
	ctx := context.Background()

	status := AppointmentCancelled
	updated, err := s.UpdateAppointment(ctx, "a1", AppointmentUpdate{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, AppointmentCancelled, updated.Status)
	assert.Equal(t, "p1", updated.PatientID)
	assert.Equal(t, "James Smith", updated.PatientName)
	assert.Equal(t, "2026-09-01T09:00:00Z", updated.Date)
	assert.Equal(t, 30, updated.DurationMinutes)
	assert.Equal(t, TypeCheckUp, updated.Type)
	assert.Equal(t, "Routine check-up - hypertension", updated.Notes)
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	s := seededMemoryStore(t)
	status := AppointmentCompleted
	_, err := s.UpdateAppointment(context.Background(), "missing", AppointmentUpdate{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertAppointmentRoundTrip(t *testing.T) {
	s := seededMemoryStore(t)
	ctx := context.Background()

	inserted, err := s.InsertAppointment(ctx, Appointment{
		PatientID:       "p2",
		PatientName:     "Mary Jones",
		Date:            "2026-09-15T10:30:00Z",
		DurationMinutes: 45,
		Status:          AppointmentPending,
		Type:            TypeFollowUp,
	})
	require.NoError(t, err)
	require.NotEmpty(t, inserted.ID)
	assert.NotEqual(t, "a1", inserted.ID, "fresh id must be previously unseen")

	appointments, err := s.ListAppointments(ctx)
	require.NoError(t, err)

	var matches int
	for _, a := range appointments {
		if a.ID == inserted.ID {
			matches++
			assert.Equal(t, *inserted, a)
		}
	}
	assert.Equal(t, 1, matches, "exactly one record with the new id")
}

func TestInsertCallLogAppends(t *testing.T) {
	s := seededMemoryStore(t)
	ctx := context.Background()

	_, err := s.InsertCallLog(ctx, CallLog{PhoneNumber: "+1-555-0100", Consent: "approved", CreatedAt: "2026-08-31T12:00:00Z"})
	require.NoError(t, err)
	second, err := s.InsertCallLog(ctx, CallLog{PhoneNumber: "+1-555-0101", CreatedAt: "2026-08-31T12:05:00Z"})
	require.NoError(t, err)

	logs, err := s.ListCallLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, second.ID, logs[1].ID)
}

func TestListReturnsCopies(t *testing.T) {
	s := seededMemoryStore(t)
	ctx := context.Background()

	patients, err := s.ListPatients(ctx)
	require.NoError(t, err)
	patients[0].Name = "Mutated"

	again, err := s.GetPatient(ctx, patients[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Mutated", again.Name, "callers must not be able to mutate stored records")
}
