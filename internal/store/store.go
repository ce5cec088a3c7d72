package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned for lookups and updates against unknown ids so
// callers can render empty states instead of failing.
var ErrNotFound = errors.New("store: record not found")

// Store is the persistence contract the rest of the application depends
// on: two mutable collections (patients, appointments) and an append-only
// call log. Insertion order happens to be preserved by both backends but
// callers must not rely on it; the UI re-sorts for display.
type Store interface {
	ListPatients(ctx context.Context) ([]Patient, error)
	GetPatient(ctx context.Context, id string) (*Patient, error)
	UpdatePatient(ctx context.Context, id string, update PatientUpdate) (*Patient, error)

	ListAppointments(ctx context.Context) ([]Appointment, error)
	InsertAppointment(ctx context.Context, appt Appointment) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id string, update AppointmentUpdate) (*Appointment, error)

	ListCallLogs(ctx context.Context) ([]CallLog, error)
	InsertCallLog(ctx context.Context, log CallLog) (*CallLog, error)

	// SeedIfEmpty populates absent collections with the demo dataset and
	// reports whether seeding happened.
	SeedIfEmpty(ctx context.Context, patients []Patient, appointments []Appointment) (bool, error)
}
