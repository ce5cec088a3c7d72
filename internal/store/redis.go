package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// One JSON-encoded array per collection under a fixed key.
const (
	patientsKey     = "medischedule:patients"
	appointmentsKey = "medischedule:appointments"
	callLogsKey     = "medischedule:calls"
)

// RedisStore persists the three collections as JSON blobs in Redis.
// Updates are read-modify-write: the single-operator deployment this
// serves has no concurrent writers, so no per-record locking is done.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a store backed by Redis.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) load(ctx context.Context, key string, dest any) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("store: get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("store: unmarshal %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

// ListPatients returns the full patients collection.
func (s *RedisStore) ListPatients(ctx context.Context) ([]Patient, error) {
	var patients []Patient
	if err := s.load(ctx, patientsKey, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// GetPatient returns the patient with the given id, or ErrNotFound.
func (s *RedisStore) GetPatient(ctx context.Context, id string) (*Patient, error) {
	patients, err := s.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range patients {
		if patients[i].ID == id {
			p := patients[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// UpdatePatient shallow-merges the update and persists the collection.
func (s *RedisStore) UpdatePatient(ctx context.Context, id string, update PatientUpdate) (*Patient, error) {
	patients, err := s.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range patients {
		if patients[i].ID == id {
			patients[i] = update.apply(patients[i])
			if err := s.save(ctx, patientsKey, patients); err != nil {
				return nil, err
			}
			p := patients[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// ListAppointments returns the full appointments collection.
func (s *RedisStore) ListAppointments(ctx context.Context) ([]Appointment, error) {
	var appointments []Appointment
	if err := s.load(ctx, appointmentsKey, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// InsertAppointment assigns a fresh id, appends, and persists.
func (s *RedisStore) InsertAppointment(ctx context.Context, appt Appointment) (*Appointment, error) {
	appointments, err := s.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	appt.ID = uuid.NewString()
	appointments = append(appointments, appt)
	if err := s.save(ctx, appointmentsKey, appointments); err != nil {
		return nil, err
	}
	return &appt, nil
}

// UpdateAppointment shallow-merges the update and persists the collection.
func (s *RedisStore) UpdateAppointment(ctx context.Context, id string, update AppointmentUpdate) (*Appointment, error) {
	appointments, err := s.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		if appointments[i].ID == id {
			appointments[i] = update.apply(appointments[i])
			if err := s.save(ctx, appointmentsKey, appointments); err != nil {
				return nil, err
			}
			a := appointments[i]
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// ListCallLogs returns the full call log collection.
func (s *RedisStore) ListCallLogs(ctx context.Context) ([]CallLog, error) {
	var logs []CallLog
	if err := s.load(ctx, callLogsKey, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// InsertCallLog assigns a fresh id, appends, and persists.
func (s *RedisStore) InsertCallLog(ctx context.Context, log CallLog) (*CallLog, error) {
	logs, err := s.ListCallLogs(ctx)
	if err != nil {
		return nil, err
	}
	log.ID = uuid.NewString()
	logs = append(logs, log)
	if err := s.save(ctx, callLogsKey, logs); err != nil {
		return nil, err
	}
	return &log, nil
}

// Reset deletes all three collection keys so the next SeedIfEmpty
// regenerates the dataset.
func (s *RedisStore) Reset(ctx context.Context) error {
	if err := s.rdb.Del(ctx, patientsKey, appointmentsKey, callLogsKey).Err(); err != nil {
		return fmt.Errorf("store: delete collections: %w", err)
	}
	return nil
}

// SeedIfEmpty installs the demo dataset when the patients key is absent.
func (s *RedisStore) SeedIfEmpty(ctx context.Context, patients []Patient, appointments []Appointment) (bool, error) {
	exists, err := s.rdb.Exists(ctx, patientsKey).Result()
	if err != nil {
		return false, fmt.Errorf("store: exists %s: %w", patientsKey, err)
	}
	if exists > 0 {
		return false, nil
	}
	if err := s.save(ctx, patientsKey, patients); err != nil {
		return false, err
	}
	if err := s.save(ctx, appointmentsKey, appointments); err != nil {
		return false, err
	}
	if err := s.save(ctx, callLogsKey, []CallLog{}); err != nil {
		return false, err
	}
	return true, nil
}
