package calls

import (
	"strings"
	"sync"
	"time"
)

// Call statuses the registry itself assigns. Vendor status updates are
// passed through verbatim and are not validated against these.
const (
	StatusInitiated = "initiated"
	StatusUnknown   = "unknown"
	StatusCompleted = "completed"
)

// Consent classification values.
const (
	ConsentUnknown  = "unknown"
	ConsentApproved = "approved"
	ConsentDenied   = "denied"
)

// Vendor webhook event types the registry understands. Anything else is
// dropped without error.
const (
	EventStatusUpdate = "status-update"
	EventTranscript   = "transcript"
	EventCallEnd      = "call-end"
)

var (
	affirmativeTokens = []string{"yes", "agree", "accept"}
	negativeTokens    = []string{"no", "decline", "refuse"}
)

// CallRecord is the evolving state of one outbound call, keyed by the
// vendor-assigned call id.
type CallRecord struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Status      string    `json:"status"`
	Transcript  []string  `json:"transcript"`
	Consent     string    `json:"consent"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Event is a normalized vendor webhook event.
type Event struct {
	// Type is the vendor message type (status-update, transcript, call-end).
	Type string
	// Status carries the vendor's literal status string for status-update.
	Status string
	// TranscriptType marks an utterance as "final" or "partial".
	TranscriptType string
	// Role is the speaker role ("assistant" or the customer).
	Role string
	// Transcript is the utterance text.
	Transcript string
	// PhoneNumber is the best-effort customer number from the payload,
	// used only when the registry must synthesize a placeholder record.
	PhoneNumber string
}

// Registry is the single source of truth for in-flight and completed call
// state. It is constructed once at service start and handed to both the
// outbound initiator and the webhook handler; a process restart loses all
// state, and the authoritative completion signal only ever arrives via a
// call-end event.
type Registry struct {
	mu    sync.RWMutex
	calls map[string]*CallRecord
	now   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		calls: make(map[string]*CallRecord),
		now:   time.Now,
	}
}

// NewRegistryWithClock allows tests to pin record timestamps.
func NewRegistryWithClock(now func() time.Time) *Registry {
	r := NewRegistry()
	r.now = now
	return r
}

// Create inserts a fresh record for a successfully initiated call.
// Duplicate creation overwrites silently: last writer wins, never an error.
func (r *Registry) Create(callID, phoneNumber string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[callID] = &CallRecord{
		ID:          callID,
		PhoneNumber: phoneNumber,
		Status:      StatusInitiated,
		Transcript:  []string{},
		Consent:     ConsentUnknown,
		CreatedAt:   r.now().UTC(),
	}
}

// Get returns a snapshot of the record, or false if the id was never
// created or event-touched. The snapshot is a deep copy; two reads with no
// intervening event return identical records.
func (r *Registry) Get(callID string) (CallRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.calls[callID]
	if !ok {
		return CallRecord{}, false
	}
	return rec.snapshot(), true
}

// ApplyEvent folds a vendor event into the record for callID. Webhook
// delivery order is not guaranteed, so an event for an unknown id first
// synthesizes a placeholder record rather than failing.
func (r *Registry) ApplyEvent(callID string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.calls[callID]
	if !ok {
		phone := ev.PhoneNumber
		if phone == "" {
			phone = "unknown"
		}
		rec = &CallRecord{
			ID:          callID,
			PhoneNumber: phone,
			Status:      StatusUnknown,
			Transcript:  []string{},
			Consent:     ConsentUnknown,
			CreatedAt:   r.now().UTC(),
		}
		r.calls[callID] = rec
	}

	switch ev.Type {
	case EventStatusUpdate:
		// Opaque passthrough of the vendor's status vocabulary.
		rec.Status = ev.Status
	case EventTranscript:
		if ev.TranscriptType != "final" {
			return
		}
		speaker := "Customer"
		if ev.Role == "assistant" {
			speaker = "AI"
		}
		rec.Transcript = append(rec.Transcript, speaker+": "+ev.Transcript)
		rec.Consent = inferConsent(ev.Transcript, rec.Consent)
	case EventCallEnd:
		rec.Status = StatusCompleted
	default:
		// Unrecognized event types are dropped, not errors.
	}
}

// ActiveCallIDs lists every known call id, for the webhook diagnostic.
func (r *Registry) ActiveCallIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.calls))
	for id := range r.calls {
		ids = append(ids, id)
	}
	return ids
}

// All returns snapshots of every record, for the debug dump endpoint.
func (r *Registry) All() []CallRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CallRecord, 0, len(r.calls))
	for _, rec := range r.calls {
		out = append(out, rec.snapshot())
	}
	return out
}

// Sweep evicts completed records older than retention and reports how many
// were removed. Eviction is off unless a retention is configured; without
// it records accumulate for the process lifetime.
func (r *Registry) Sweep(retention time.Duration) int {
	if retention <= 0 {
		return 0
	}
	cutoff := r.now().UTC().Add(-retention)
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int
	for id, rec := range r.calls {
		if rec.Status == StatusCompleted && rec.CreatedAt.Before(cutoff) {
			delete(r.calls, id)
			removed++
		}
	}
	return removed
}

func (c *CallRecord) snapshot() CallRecord {
	out := *c
	out.Transcript = make([]string, len(c.Transcript))
	copy(out.Transcript, c.Transcript)
	return out
}

// inferConsent classifies an utterance by literal substring containment,
// affirmative tokens first. False positives are accepted ("nonetheless"
// contains "no").
func inferConsent(utterance, prior string) string {
	text := strings.ToLower(utterance)
	for _, token := range affirmativeTokens {
		if strings.Contains(text, token) {
			return ConsentApproved
		}
	}
	for _, token := range negativeTokens {
		if strings.Contains(text, token) {
			return ConsentDenied
		}
	}
	return prior
}
