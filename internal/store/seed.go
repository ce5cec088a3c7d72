package store

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda", "William", "Elizabeth",
	"David", "Barbara", "Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Christopher", "Karen",
	"Charles", "Nancy", "Daniel", "Lisa", "Matthew", "Betty", "Anthony", "Helen", "Mark", "Sandra",
	"Donald", "Donna", "Steven", "Carol", "Paul", "Ruth", "Andrew", "Sharon", "Joshua", "Michelle",
	"Kenneth", "Laura", "Kevin", "Brian", "Kimberly", "George", "Deborah", "Edward", "Dorothy",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Perez", "Thompson", "White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson",
	"Walker", "Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
	"Green", "Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell", "Carter", "Roberts",
}

var conditions = []string{
	"Hypertension", "Diabetes Type 2", "Asthma", "Routine Checkup", "Migraine", "Back Pain", "Flu Symptoms",
	"Arthritis", "High Cholesterol", "Anxiety", "Depression", "Allergies", "Insomnia", "COPD",
	"Heart Disease", "Osteoporosis", "Thyroid Issues", "Kidney Disease", "Liver Disease", "Cancer Screening",
}

var medicalHistories = []string{
	"No significant medical history", "History of heart disease", "Family history of diabetes",
	"Previous surgery in 2019", "Chronic pain management", "Medication allergies noted",
	"Regular blood pressure monitoring", "Diabetic - insulin dependent", "Asthma - uses inhaler",
	"Previous hospitalization", "Ongoing physical therapy", "Mental health treatment",
}

var insuranceProviders = []string{
	"Blue Cross Blue Shield", "Aetna", "Cigna", "UnitedHealth", "Humana", "Kaiser Permanente",
	"Anthem", "Medicare", "Medicaid", "Tricare", "Independence Blue Cross", "Molina Healthcare",
}

var streetNames = []string{
	"Main St", "Oak Ave", "Pine Rd", "Elm Dr", "Maple Ln", "Cedar Way", "Park Blvd", "First Ave", "Second St", "Third Dr",
}

var cityNames = []string{
	"Springfield", "Franklin", "Georgetown", "Madison", "Clinton", "Riverside", "Fairview", "Midtown", "Downtown", "Uptown",
}

var stateCodes = []string{"CA", "NY", "TX", "FL", "IL", "PA", "OH", "GA", "NC", "MI"}

var patientTraits = []string{
	"cooperative and follows instructions well", "anxious about medical procedures",
	"punctual and reliable", "requires assistance with mobility", "prefers morning appointments",
	"has transportation challenges", "very health-conscious", "needs interpreter services",
}

// Generator produces the randomized demo dataset used to bootstrap an
// empty store. All randomness flows through the injected source so tests
// can pin the output.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator creates a generator seeded from src, anchored at now.
func NewGenerator(src rand.Source, now time.Time) *Generator {
	return &Generator{rng: rand.New(src), now: now}
}

func (g *Generator) pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

func (g *Generator) phone() string {
	return fmt.Sprintf("+1-%d-%d-%d", 100+g.rng.Intn(900), 100+g.rng.Intn(900), 1000+g.rng.Intn(9000))
}

// Patients generates count demo patients. Risk profiles land at roughly
// 20% High, 30% Moderate, 50% Low.
func (g *Generator) Patients(count int) []Patient {
	patients := make([]Patient, 0, count)
	for i := 0; i < count; i++ {
		first := g.pick(firstNames)
		last := g.pick(lastNames)
		age := 18 + g.rng.Intn(70)
		birthYear := g.now.Year() - age

		risk := RiskLow
		switch roll := g.rng.Float64(); {
		case roll > 0.8:
			risk = RiskHigh
		case roll > 0.5:
			risk = RiskModerate
		}

		p := Patient{
			ID:    uuid.NewString(),
			Name:  first + " " + last,
			Email: fmt.Sprintf("%s.%s%d@email.com", strings.ToLower(first), strings.ToLower(last), g.rng.Intn(100)),
			Phone: g.phone(),
			Age:   age,
			DateOfBirth: fmt.Sprintf("%04d-%02d-%02d",
				birthYear, 1+g.rng.Intn(12), 1+g.rng.Intn(28)),
			Address: fmt.Sprintf("%d %s, %s, %s %d",
				1+g.rng.Intn(9999), g.pick(streetNames), g.pick(cityNames), g.pick(stateCodes), 10000+g.rng.Intn(90000)),
			Insurance:        g.pick(insuranceProviders),
			EmergencyContact: g.pick(firstNames) + " " + last,
			EmergencyPhone:   g.phone(),
			MedicalHistory:   g.pick(medicalHistories),
			RiskProfile:      risk,
		}
		if g.rng.Float64() > 0.3 {
			visited := g.now.AddDate(0, 0, -g.rng.Intn(365))
			p.LastVisit = visited.Format("2006-01-02")
		}
		if g.rng.Float64() > 0.5 {
			p.Notes = "Patient is " + g.pick(patientTraits)
		}
		patients = append(patients, p)
	}
	return patients
}

// Appointments generates count demo appointments referencing the given
// patients, spread over -15..+45 days. Status follows the date: more than
// a day past is Completed, yesterday is a coin flip between Completed and
// Cancelled, future is mostly Scheduled with the rest Pending.
func (g *Generator) Appointments(patients []Patient, count int) []Appointment {
	if len(patients) == 0 {
		return nil
	}
	appointments := make([]Appointment, 0, count)
	durations := []int{15, 30, 45, 60}
	quarters := []int{0, 15, 30, 45}
	types := []AppointmentType{TypeCheckUp, TypeFollowUp, TypeConsultation, TypeEmergency}

	for i := 0; i < count; i++ {
		patient := patients[g.rng.Intn(len(patients))]
		offset := g.rng.Intn(60) - 15
		day := g.now.AddDate(0, 0, offset)
		when := time.Date(day.Year(), day.Month(), day.Day(),
			8+g.rng.Intn(10), quarters[g.rng.Intn(4)], 0, 0, day.Location())

		var status AppointmentStatus
		switch {
		case offset < -1:
			status = AppointmentCompleted
		case offset < 0:
			if g.rng.Float64() > 0.5 {
				status = AppointmentCompleted
			} else {
				status = AppointmentCancelled
			}
		default:
			if g.rng.Float64() > 0.2 {
				status = AppointmentScheduled
			} else {
				status = AppointmentPending
			}
		}

		apptType := types[g.rng.Intn(len(types))]
		condition := strings.ToLower(g.pick(conditions))
		notes := []string{
			fmt.Sprintf("Patient reporting %s", condition),
			fmt.Sprintf("Follow-up for %s", condition),
			fmt.Sprintf("Routine %s - %s", strings.ToLower(string(apptType)), condition),
			fmt.Sprintf("Patient experiencing symptoms related to %s", condition),
			fmt.Sprintf("Scheduled %s for %s management", strings.ToLower(string(apptType)), condition),
		}

		appointments = append(appointments, Appointment{
			ID:              uuid.NewString(),
			PatientID:       patient.ID,
			PatientName:     patient.Name,
			Date:            when.UTC().Format(time.RFC3339),
			DurationMinutes: durations[g.rng.Intn(4)],
			Status:          status,
			Type:            apptType,
			Notes:           notes[g.rng.Intn(len(notes))],
		})
	}
	return appointments
}
