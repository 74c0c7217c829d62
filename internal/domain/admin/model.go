package admin

import (
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/emergency"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

// RecentCaseLimit is the number of newest cases shown on the dashboard.
const RecentCaseLimit = 10

// Dashboard is the administrator's aggregate view of the system.
type Dashboard struct {
	TotalDoctors     int                 `json:"total_doctors"`
	AvailableDoctors int                 `json:"available_doctors"`
	ActiveHospitals  int                 `json:"active_hospitals"`
	TotalCases       int                 `json:"total_cases"`
	ActiveCases      int                 `json:"active_cases"`
	Queue            triage.QueueSummary `json:"queue"`
	RecentCases      []*emergency.Case   `json:"recent_cases"`
}

// activeStatuses are the statuses counted as active on the dashboard. This is
// narrower than the open queue.
var activeStatuses = []triage.Status{triage.StatusWaiting, triage.StatusDoctorAssigned}
