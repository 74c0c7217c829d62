package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

type Service struct {
	doctors  DoctorRepository
	activity ActivityRepository
	logger   zerolog.Logger
}

func NewService(doctors DoctorRepository, activity ActivityRepository, logger zerolog.Logger) *Service {
	return &Service{doctors: doctors, activity: activity, logger: logger}
}

// -- Doctors --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	d.DoctorCode = strings.TrimSpace(d.DoctorCode)
	d.Name = strings.TrimSpace(d.Name)
	if d.DoctorCode == "" {
		return fmt.Errorf("%w: doctor_code is required", ErrInvalidInput)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, ok := triage.ParseSpecialization(string(d.Specialization)); !ok {
		return fmt.Errorf("%w: invalid specialization: %q", ErrInvalidInput, d.Specialization)
	}
	if d.Status == "" {
		d.Status = triage.Available
	}
	if _, ok := triage.ParseAvailability(string(d.Status)); !ok {
		return fmt.Errorf("%w: invalid status: %q", ErrInvalidInput, d.Status)
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, f DoctorFilter, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, f, limit, offset)
}

func (s *Service) CountDoctors(ctx context.Context, f DoctorFilter) (int, error) {
	return s.doctors.Count(ctx, f)
}

// Roster is a point-in-time snapshot of the doctors that can take a case.
func (s *Service) Roster(ctx context.Context) ([]triage.DoctorCandidate, error) {
	docs, err := s.doctors.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading doctor roster: %w", err)
	}
	roster := make([]triage.DoctorCandidate, 0, len(docs))
	for _, d := range docs {
		roster = append(roster, d.Candidate())
	}
	return roster, nil
}

func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, status string) (*Doctor, error) {
	st, ok := triage.ParseAvailability(status)
	if !ok {
		return nil, fmt.Errorf("%w: invalid status: %q", ErrInvalidInput, status)
	}
	if err := s.doctors.UpdateStatus(ctx, id, st); err != nil {
		return nil, err
	}
	return s.doctors.GetByID(ctx, id)
}

// Login marks the doctor available and records the login.
func (s *Service) Login(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.SetAvailability(ctx, id, string(triage.Available))
	if err != nil {
		return nil, err
	}
	s.RecordActivity(ctx, id, ActionLogin, fmt.Sprintf("Dr. %s logged in", trimTitle(d.Name)))
	return d, nil
}

// Logout marks the doctor offline and records the logout.
func (s *Service) Logout(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.SetAvailability(ctx, id, string(triage.Offline))
	if err != nil {
		return nil, err
	}
	s.RecordActivity(ctx, id, ActionLogout, fmt.Sprintf("Dr. %s logged out", trimTitle(d.Name)))
	return d, nil
}

// -- Activity --

// RecordActivity appends an activity entry. A failed append is logged and
// otherwise ignored so it never undoes the action it describes.
func (s *Service) RecordActivity(ctx context.Context, doctorID uuid.UUID, action Action, description string) {
	a := &ActivityLog{DoctorID: doctorID, Action: action, Description: description}
	if err := s.activity.Append(ctx, a); err != nil {
		s.logger.Error().Err(err).
			Str("doctor_id", doctorID.String()).
			Str("action", string(action)).
			Msg("failed to append doctor activity")
	}
}

func (s *Service) ListActivity(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*ActivityLog, int, error) {
	return s.activity.ListByDoctor(ctx, doctorID, limit, offset)
}

func trimTitle(name string) string {
	return strings.TrimPrefix(name, "Dr. ")
}
