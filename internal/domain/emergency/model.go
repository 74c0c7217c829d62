package emergency

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

// Case maps to the emergency_case table. Token, Priority, Score, DoctorID
// and HospitalID are fixed at creation; afterwards only Status, ETA and
// UpdatedAt change.
type Case struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Token       string          `db:"token" json:"token"`
	PatientID   *uuid.UUID      `db:"patient_id" json:"patient_id,omitempty"`
	Name        string          `db:"patient_name" json:"name"`
	Phone       string          `db:"patient_phone" json:"phone"`
	Location    string          `db:"patient_location" json:"location"`
	Symptom     triage.Symptom  `db:"symptom" json:"symptom"`
	Description string          `db:"symptom_description" json:"description"`
	Priority    triage.Priority `db:"priority" json:"priority"`
	Score       int             `db:"score" json:"score"`
	DoctorID    *uuid.UUID      `db:"assigned_doctor_id" json:"doctor_id,omitempty"`
	HospitalID  *uuid.UUID      `db:"assigned_hospital_id" json:"hospital_id,omitempty"`
	Status      triage.Status   `db:"status" json:"status"`
	Mode        triage.CareMode `db:"mode" json:"mode"`
	ETA         string          `db:"eta" json:"eta"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`

	// Populated by join on reads.
	DoctorName   *string `json:"doctor_name,omitempty"`
	HospitalName *string `json:"hospital_name,omitempty"`
}

func (c *Case) QueueKey() triage.QueueKey {
	return triage.QueueKey{Score: c.Score, CreatedAt: c.CreatedAt, ID: c.ID.String()}
}

// DoctorLabel is the assigned doctor's name, or "Unassigned".
func (c *Case) DoctorLabel() string {
	if c.DoctorName != nil && *c.DoctorName != "" {
		return *c.DoctorName
	}
	return "Unassigned"
}

// CaseInput is an intake request. Token, DoctorID and HospitalID are
// pre-assignments honoured only when set by a trusted caller.
type CaseInput struct {
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Location    string     `json:"location"`
	Symptom     string     `json:"symptom"`
	Description string     `json:"description"`
	Mode        string     `json:"mode"`
	PatientID   *uuid.UUID `json:"patient_id,omitempty"`
	Token       string     `json:"token,omitempty"`
	DoctorID    *uuid.UUID `json:"doctor_id,omitempty"`
	HospitalID  *uuid.UUID `json:"hospital_id,omitempty"`
}

// QueueEntry is one row of the public emergency queue.
type QueueEntry struct {
	QueueNo  int             `json:"queue_no"`
	Token    string          `json:"token"`
	Name     string          `json:"name"`
	Symptom  string          `json:"symptom"`
	Priority triage.Priority `json:"priority"`
	Status   triage.Status   `json:"status"`
	Doctor   string          `json:"doctor"`
}

// QueueFilter narrows the displayed queue. Positions and the summary are
// always computed over the whole open queue.
type QueueFilter struct {
	Status   triage.Status
	Priority triage.Priority
}

type QueueView struct {
	Cases   []QueueEntry        `json:"cases"`
	Total   int                 `json:"total"`
	Summary triage.QueueSummary `json:"summary"`
}

// DoctorDashboard lists a doctor's cases in queue order.
type DoctorDashboard struct {
	Cases   []*Case `json:"cases"`
	Total   int     `json:"total"`
	Pending int     `json:"pending"`
}

// Home care

const (
	HomeCareStatusPending = "Pending"
	HomeCareDefaultETA    = "15-20 mins"

	HomeVisit  = "home_visit"
	CallAssist = "call_assist"
)

// HomeCareRequest maps to the home_care_request table.
type HomeCareRequest struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Token      string     `db:"token" json:"token"`
	Name       string     `db:"patient_name" json:"name"`
	Phone      string     `db:"phone" json:"phone"`
	Address    string     `db:"address" json:"address"`
	Issue      string     `db:"issue" json:"issue"`
	Mode       string     `db:"mode" json:"mode"`
	DoctorID   *uuid.UUID `db:"assigned_doctor_id" json:"doctor_id,omitempty"`
	CaseID     *uuid.UUID `db:"emergency_case_id" json:"case_id,omitempty"`
	Status     string     `db:"status" json:"status"`
	ETA        string     `db:"eta" json:"eta"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
	CaseToken  string     `json:"case_token,omitempty"`
	DoctorName *string    `json:"doctor_name,omitempty"`
}

type HomeCareInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Issue   string `json:"issue"`
	Mode    string `json:"mode"`
}

var issueSymptoms = map[string]triage.Symptom{
	"heart_attack": triage.SymptomPain,
	"breathing":    triage.SymptomPain,
	"stroke":       triage.SymptomStroke,
	"weakness":     triage.SymptomWeakness,
}

// issueLabels are the display labels the intake form posts.
var issueLabels = map[string]string{
	"heart attack symptoms": "heart_attack",
	"breathing difficulty":  "breathing",
	"stroke symptoms":       "stroke",
	"severe weakness":       "weakness",
}

// ParseIssue resolves an issue code or its display label to the issue code.
func ParseIssue(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if code, ok := issueLabels[v]; ok {
		return code, true
	}
	v = strings.ReplaceAll(v, " ", "_")
	if _, ok := issueSymptoms[v]; ok {
		return v, true
	}
	return "", false
}

// IssueSymptom maps a home-care issue code to a triage symptom.
func IssueSymptom(issue string) (triage.Symptom, bool) {
	s, ok := issueSymptoms[issue]
	return s, ok
}

// HomeCareMode maps a home-care mode to the case care mode.
func HomeCareMode(mode string) triage.CareMode {
	if mode == HomeVisit {
		return triage.ModeHomeVisit
	}
	return triage.ModeDoctorOnCall
}
