package staff

import (
	"time"

	"github.com/google/uuid"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

// Doctor maps to the doctor table.
type Doctor struct {
	ID             uuid.UUID             `db:"id" json:"id"`
	DoctorCode     string                `db:"doctor_code" json:"doctor_code"`
	Name           string                `db:"name" json:"name"`
	Specialization triage.Specialization `db:"specialization" json:"specialization"`
	Phone          *string               `db:"phone" json:"phone,omitempty"`
	Email          *string               `db:"email" json:"email,omitempty"`
	Status         triage.Availability   `db:"status" json:"status"`
	CreatedAt      time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time             `db:"updated_at" json:"updated_at"`
}

// Candidate returns the view of d the doctor selector works on.
func (d *Doctor) Candidate() triage.DoctorCandidate {
	return triage.DoctorCandidate{
		ID:             d.ID,
		Code:           d.DoctorCode,
		Specialization: d.Specialization,
		Availability:   d.Status,
	}
}

// Action is the kind of doctor activity being logged.
type Action string

const (
	ActionLogin         Action = "login"
	ActionLogout        Action = "logout"
	ActionCaseAssigned  Action = "case_assigned"
	ActionCaseUpdated   Action = "case_updated"
	ActionCaseCompleted Action = "case_completed"
)

// ActivityLog maps to the doctor_activity_log table. Rows are append-only.
type ActivityLog struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Action      Action    `db:"action" json:"action"`
	Description string    `db:"description" json:"description"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
}

// DoctorFilter narrows doctor listings. Zero values match everything.
type DoctorFilter struct {
	Specialization triage.Specialization
	Status         triage.Availability
}
