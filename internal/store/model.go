package store

// RiskProfile buckets patients for the dashboard's risk breakdown.
type RiskProfile string

const (
	RiskLow      RiskProfile = "Low"
	RiskModerate RiskProfile = "Moderate"
	RiskHigh     RiskProfile = "High"
)

// AppointmentStatus is a flat set: any status may follow any other, the UI
// drives transitions explicitly and nothing here forbids them.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDING"
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// AppointmentType mirrors the visit categories the schedule UI offers.
type AppointmentType string

const (
	TypeCheckUp      AppointmentType = "Check-up"
	TypeFollowUp     AppointmentType = "Follow-up"
	TypeConsultation AppointmentType = "Consultation"
	TypeEmergency    AppointmentType = "Emergency"
)

// Patient is a clinic patient record. ID is opaque and immutable once
// assigned; everything else is mutated via partial update.
type Patient struct {
	ID               string      `json:"_id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	Age              int         `json:"age,omitempty"`
	DateOfBirth      string      `json:"dateOfBirth,omitempty"`
	Address          string      `json:"address,omitempty"`
	Insurance        string      `json:"insurance,omitempty"`
	EmergencyContact string      `json:"emergencyContact,omitempty"`
	EmergencyPhone   string      `json:"emergencyPhone,omitempty"`
	MedicalHistory   string      `json:"medicalHistory,omitempty"`
	LastVisit        string      `json:"lastVisit,omitempty"`
	RiskProfile      RiskProfile `json:"riskProfile"`
	Notes            string      `json:"notes,omitempty"`
}

// Appointment references a patient by id with no enforced referential
// integrity; PatientName is denormalized for display.
type Appointment struct {
	ID              string            `json:"_id"`
	PatientID       string            `json:"patientId"`
	PatientName     string            `json:"patientName"`
	Date            string            `json:"date"` // ISO instant
	DurationMinutes int               `json:"durationMinutes"`
	Status          AppointmentStatus `json:"status"`
	Type            AppointmentType   `json:"type"`
	Notes           string            `json:"notes,omitempty"`
	Transcription   string            `json:"transcription,omitempty"`
	AISummary       string            `json:"aiSummary,omitempty"`
}

// CallLog is an append-only record of a finished AI call.
type CallLog struct {
	ID          string   `json:"_id"`
	CallID      string   `json:"callId,omitempty"`
	PatientID   string   `json:"patientId,omitempty"`
	PatientName string   `json:"patientName,omitempty"`
	PhoneNumber string   `json:"phoneNumber"`
	Consent     string   `json:"consent,omitempty"`
	Transcript  []string `json:"transcript,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

// PatientUpdate carries the fields of a partial patient update. Nil fields
// are left untouched by the merge.
type PatientUpdate struct {
	Name             *string      `json:"name,omitempty"`
	Email            *string      `json:"email,omitempty"`
	Phone            *string      `json:"phone,omitempty"`
	Age              *int         `json:"age,omitempty"`
	DateOfBirth      *string      `json:"dateOfBirth,omitempty"`
	Address          *string      `json:"address,omitempty"`
	Insurance        *string      `json:"insurance,omitempty"`
	EmergencyContact *string      `json:"emergencyContact,omitempty"`
	EmergencyPhone   *string      `json:"emergencyPhone,omitempty"`
	MedicalHistory   *string      `json:"medicalHistory,omitempty"`
	LastVisit        *string      `json:"lastVisit,omitempty"`
	RiskProfile      *RiskProfile `json:"riskProfile,omitempty"`
	Notes            *string      `json:"notes,omitempty"`
}

func (u PatientUpdate) apply(p Patient) Patient {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = *u.DateOfBirth
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.Insurance != nil {
		p.Insurance = *u.Insurance
	}
	if u.EmergencyContact != nil {
		p.EmergencyContact = *u.EmergencyContact
	}
	if u.EmergencyPhone != nil {
		p.EmergencyPhone = *u.EmergencyPhone
	}
	if u.MedicalHistory != nil {
		p.MedicalHistory = *u.MedicalHistory
	}
	if u.LastVisit != nil {
		p.LastVisit = *u.LastVisit
	}
	if u.RiskProfile != nil {
		p.RiskProfile = *u.RiskProfile
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	return p
}

// AppointmentUpdate carries the fields of a partial appointment update.
type AppointmentUpdate struct {
	PatientID       *string            `json:"patientId,omitempty"`
	PatientName     *string            `json:"patientName,omitempty"`
	Date            *string            `json:"date,omitempty"`
	DurationMinutes *int               `json:"durationMinutes,omitempty"`
	Status          *AppointmentStatus `json:"status,omitempty"`
	Type            *AppointmentType   `json:"type,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	Transcription   *string            `json:"transcription,omitempty"`
	AISummary       *string            `json:"aiSummary,omitempty"`
}

func (u AppointmentUpdate) apply(a Appointment) Appointment {
	if u.PatientID != nil {
		a.PatientID = *u.PatientID
	}
	if u.PatientName != nil {
		a.PatientName = *u.PatientName
	}
	if u.Date != nil {
		a.Date = *u.Date
	}
	if u.DurationMinutes != nil {
		a.DurationMinutes = *u.DurationMinutes
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Type != nil {
		a.Type = *u.Type
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
	if u.Transcription != nil {
		a.Transcription = *u.Transcription
	}
	if u.AISummary != nil {
		a.AISummary = *u.AISummary
	}
	return a
}
