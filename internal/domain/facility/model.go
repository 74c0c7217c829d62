package facility

import (
	"time"

	"github.com/google/uuid"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

const (
	DefaultTotalBeds     = 100
	DefaultAvailableBeds = 50
)

// Hospital maps to the hospital table.
type Hospital struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	Name          string           `db:"name" json:"name"`
	Address       string           `db:"address" json:"address"`
	Phone         string           `db:"phone" json:"phone"`
	Email         *string          `db:"email" json:"email,omitempty"`
	EmergencyLoad triage.LoadLevel `db:"emergency_load" json:"emergency_load"`
	IsActive      bool             `db:"is_active" json:"is_active"`
	TotalBeds     int              `db:"total_beds" json:"total_beds"`
	AvailableBeds int              `db:"available_beds" json:"available_beds"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

func (h *Hospital) Candidate() triage.HospitalCandidate {
	return triage.HospitalCandidate{
		ID:     h.ID,
		Name:   h.Name,
		Load:   h.EmergencyLoad,
		Active: h.IsActive,
	}
}

// HospitalView is the patient-facing listing entry.
type HospitalView struct {
	*Hospital
	LoadLabel string `json:"load_label"`
}

// Update carries the administrative fields that may change on a hospital.
// Nil fields are left untouched.
type Update struct {
	Name          *string `json:"name,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	EmergencyLoad *string `json:"emergency_load,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	TotalBeds     *int    `json:"total_beds,omitempty"`
	AvailableBeds *int    `json:"available_beds,omitempty"`
}
