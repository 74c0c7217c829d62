package triage

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of an emergency case.
type Status string

const (
	StatusWaiting        Status = "Waiting"
	StatusDoctorAssigned Status = "Doctor Assigned"
	StatusInProgress     Status = "In Progress"
	StatusDoctorEnRoute  Status = "Doctor En Route"
	StatusCompleted      Status = "Completed"
	StatusCancelled      Status = "Cancelled"
)

// InitialStatus is the status every new case starts in unless the intake
// path says otherwise.
const InitialStatus = StatusWaiting

// ParseStatus validates a status label.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusWaiting, StatusDoctorAssigned, StatusInProgress, StatusDoctorEnRoute,
		StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// Terminal reports whether no further transitions leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Open reports whether a case in status s belongs in the open queue.
func (s Status) Open() bool {
	switch s {
	case StatusWaiting, StatusDoctorAssigned, StatusInProgress, StatusDoctorEnRoute:
		return true
	}
	return false
}

// OpenStatuses lists the statuses shown in the open queue.
func OpenStatuses() []Status {
	return []Status{StatusWaiting, StatusDoctorAssigned, StatusInProgress, StatusDoctorEnRoute}
}

var transitions = map[Status][]Status{
	StatusWaiting:        {StatusDoctorAssigned, StatusCancelled},
	StatusDoctorAssigned: {StatusInProgress, StatusCancelled},
	StatusInProgress:     {StatusDoctorEnRoute, StatusCancelled},
	StatusDoctorEnRoute:  {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the lifecycle table allows from -> to.
// Writing the current status again is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ErrInvalidTransition is returned by a strict TransitionPolicy.
var ErrInvalidTransition = errors.New("status transition not allowed")

// TransitionPolicy decides whether a status write is accepted. The zero value
// is permissive: any valid status may be written at any time.
type TransitionPolicy struct {
	Strict bool
}

// Check returns ErrInvalidTransition when the policy is strict and the
// lifecycle table does not allow from -> to.
func (p TransitionPolicy) Check(from, to Status) error {
	if !p.Strict || CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, from, to)
}
