package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb)
}

func TestRedisSeedAndList(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	patients := []Patient{{ID: "p1", Name: "James Smith", RiskProfile: RiskLow}}
	appointments := []Appointment{{ID: "a1", PatientID: "p1", PatientName: "James Smith",
		Date: "2026-09-01T09:00:00Z", DurationMinutes: 30, Status: AppointmentScheduled, Type: TypeCheckUp}}

	seeded, err := s.SeedIfEmpty(ctx, patients, appointments)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = s.SeedIfEmpty(ctx, []Patient{{ID: "px"}}, nil)
	require.NoError(t, err)
	assert.False(t, seeded)

	got, err := s.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "James Smith", got[0].Name)

	logs, err := s.ListCallLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRedisResetAllowsReseed(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	seeded, err := s.SeedIfEmpty(ctx, []Patient{{ID: "p1", Name: "James Smith"}}, nil)
	require.NoError(t, err)
	require.True(t, seeded)

	_, err = s.InsertCallLog(ctx, CallLog{PhoneNumber: "+1-555-0100", CreatedAt: "2026-08-31T12:00:00Z"})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	patients, err := s.ListPatients(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients)
	logs, err := s.ListCallLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)

	seeded, err = s.SeedIfEmpty(ctx, []Patient{{ID: "p2", Name: "Linda Chen"}}, nil)
	require.NoError(t, err)
	assert.True(t, seeded)

	patients, err = s.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Linda Chen", patients[0].Name)
}

func TestRedisEmptyCollections(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	patients, err := s.ListPatients(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients)

	_, err = s.GetPatient(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisUpdatePatientPersists(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	_, err := s.SeedIfEmpty(ctx, []Patient{
		{ID: "p1", Name: "James Smith", Email: "james@email.com", RiskProfile: RiskModerate},
	}, nil)
	require.NoError(t, err)

	risk := RiskHigh
	updated, err := s.UpdatePatient(ctx, "p1", PatientUpdate{RiskProfile: &risk})
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, updated.RiskProfile)
	assert.Equal(t, "james@email.com", updated.Email)

	// Re-read through a second store instance to prove it went to Redis.
	reloaded, err := s.GetPatient(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, reloaded.RiskProfile)
}

func TestRedisInsertAppointmentAssignsID(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	inserted, err := s.InsertAppointment(ctx, Appointment{
		PatientID: "p1", PatientName: "James Smith",
		Date: "2026-09-10T14:00:00Z", DurationMinutes: 45,
		Status: AppointmentPending, Type: TypeFollowUp,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, inserted.ID)

	appointments, err := s.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, inserted.ID, appointments[0].ID)
}

func TestRedisInsertCallLog(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	log, err := s.InsertCallLog(ctx, CallLog{
		CallID:      "call_123",
		PhoneNumber: "+1-555-0100",
		Consent:     "approved",
		Transcript:  []string{"AI: Hello", "Customer: Yes I agree"},
		CreatedAt:   "2026-08-31T12:00:00Z",
	})
	require.NoError(t, err)
	require.NotEmpty(t, log.ID)

	logs, err := s.ListCallLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, []string{"AI: Hello", "Customer: Yes I agree"}, logs[0].Transcript)
}
