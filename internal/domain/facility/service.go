package facility

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

type Service struct {
	hospitals HospitalRepository
}

func NewService(hospitals HospitalRepository) *Service {
	return &Service{hospitals: hospitals}
}

func validateHospital(h *Hospital) error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(h.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if strings.TrimSpace(h.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	if _, ok := triage.ParseLoadLevel(string(h.EmergencyLoad)); !ok {
		return fmt.Errorf("%w: invalid emergency_load: %q", ErrInvalidInput, h.EmergencyLoad)
	}
	if h.TotalBeds < 0 {
		return fmt.Errorf("%w: total_beds must not be negative", ErrInvalidInput)
	}
	if h.AvailableBeds < 0 || h.AvailableBeds > h.TotalBeds {
		return fmt.Errorf("%w: available_beds must be between 0 and total_beds", ErrInvalidInput)
	}
	return nil
}

// CreateHospital registers a hospital. A zero bed count on both counters
// takes the defaults; a missing load level starts at low.
func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	if h.TotalBeds == 0 && h.AvailableBeds == 0 {
		h.TotalBeds = DefaultTotalBeds
		h.AvailableBeds = DefaultAvailableBeds
	}
	if h.EmergencyLoad == "" {
		h.EmergencyLoad = triage.LoadLow
	}
	if err := validateHospital(h); err != nil {
		return err
	}
	return s.hospitals.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

// UpdateHospital applies u to the stored hospital and validates the result
// before writing it back.
func (s *Service) UpdateHospital(ctx context.Context, id uuid.UUID, u Update) (*Hospital, error) {
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		h.Name = *u.Name
	}
	if u.Address != nil {
		h.Address = *u.Address
	}
	if u.Phone != nil {
		h.Phone = *u.Phone
	}
	if u.Email != nil {
		h.Email = u.Email
	}
	if u.EmergencyLoad != nil {
		h.EmergencyLoad = triage.LoadLevel(*u.EmergencyLoad)
	}
	if u.IsActive != nil {
		h.IsActive = *u.IsActive
	}
	if u.TotalBeds != nil {
		h.TotalBeds = *u.TotalBeds
	}
	if u.AvailableBeds != nil {
		h.AvailableBeds = *u.AvailableBeds
	}
	if err := validateHospital(h); err != nil {
		return nil, err
	}
	if err := s.hospitals.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) ListActive(ctx context.Context) ([]HospitalView, error) {
	hs, err := s.hospitals.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]HospitalView, 0, len(hs))
	for _, h := range hs {
		views = append(views, HospitalView{Hospital: h, LoadLabel: h.EmergencyLoad.Label()})
	}
	return views, nil
}

// Network is a point-in-time snapshot of the active hospitals for the
// hospital selector.
func (s *Service) Network(ctx context.Context) ([]triage.HospitalCandidate, error) {
	hs, err := s.hospitals.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hospital network: %w", err)
	}
	network := make([]triage.HospitalCandidate, 0, len(hs))
	for _, h := range hs {
		network = append(network, h.Candidate())
	}
	return network, nil
}

func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.hospitals.CountActive(ctx)
}
