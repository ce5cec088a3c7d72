package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps all three collections in process memory. It is the
// default backend for development and the test double for the Redis store.
type MemoryStore struct {
	mu           sync.RWMutex
	patients     []Patient
	appointments []Appointment
	callLogs     []CallLog
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ListPatients returns a copy of the patients collection.
func (s *MemoryStore) ListPatients(ctx context.Context) ([]Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Patient, len(s.patients))
	copy(out, s.patients)
	return out, nil
}

// GetPatient returns the patient with the given id, or ErrNotFound.
func (s *MemoryStore) GetPatient(ctx context.Context, id string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.patients {
		if s.patients[i].ID == id {
			p := s.patients[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// UpdatePatient shallow-merges the update into the stored record and
// returns the merged record.
func (s *MemoryStore) UpdatePatient(ctx context.Context, id string, update PatientUpdate) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].ID == id {
			s.patients[i] = update.apply(s.patients[i])
			p := s.patients[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// ListAppointments returns a copy of the appointments collection.
func (s *MemoryStore) ListAppointments(ctx context.Context) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out, nil
}

// InsertAppointment assigns a fresh id, appends the record, and returns it.
func (s *MemoryStore) InsertAppointment(ctx context.Context, appt Appointment) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt.ID = uuid.NewString()
	s.appointments = append(s.appointments, appt)
	return &appt, nil
}

// UpdateAppointment shallow-merges the update into the stored record.
func (s *MemoryStore) UpdateAppointment(ctx context.Context, id string, update AppointmentUpdate) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i] = update.apply(s.appointments[i])
			a := s.appointments[i]
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// ListCallLogs returns a copy of the call log collection.
func (s *MemoryStore) ListCallLogs(ctx context.Context) ([]CallLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CallLog, len(s.callLogs))
	copy(out, s.callLogs)
	return out, nil
}

// InsertCallLog assigns a fresh id and appends the entry.
func (s *MemoryStore) InsertCallLog(ctx context.Context, log CallLog) (*CallLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.ID = uuid.NewString()
	s.callLogs = append(s.callLogs, log)
	return &log, nil
}

// SeedIfEmpty installs the demo dataset when the patients collection is
// absent. The call log always starts empty.
func (s *MemoryStore) SeedIfEmpty(ctx context.Context, patients []Patient, appointments []Appointment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.patients) > 0 {
		return false, nil
	}
	s.patients = make([]Patient, len(patients))
	copy(s.patients, patients)
	s.appointments = make([]Appointment, len(appointments))
	copy(s.appointments, appointments)
	s.callLogs = []CallLog{}
	return true, nil
}
