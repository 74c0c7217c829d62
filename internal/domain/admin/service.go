package admin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/emergency"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/staff"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

type DoctorStats interface {
	CountDoctors(ctx context.Context, f staff.DoctorFilter) (int, error)
}

type HospitalStats interface {
	CountActive(ctx context.Context) (int, error)
}

type CaseStats interface {
	CountCases(ctx context.Context, statuses ...triage.Status) (int, error)
	ListCases(ctx context.Context, limit, offset int) ([]*emergency.Case, int, error)
	OpenQueue(ctx context.Context, f emergency.QueueFilter) (*emergency.QueueView, error)
}

type Service struct {
	doctors   DoctorStats
	hospitals HospitalStats
	cases     CaseStats
	logger    zerolog.Logger
}

func NewService(doctors DoctorStats, hospitals HospitalStats, cases CaseStats, logger zerolog.Logger) *Service {
	return &Service{doctors: doctors, hospitals: hospitals, cases: cases, logger: logger}
}

// Dashboard gathers every figure concurrently. The first failure cancels the
// remaining queries.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.doctors.CountDoctors(ctx, staff.DoctorFilter{})
		if err != nil {
			return fmt.Errorf("count doctors: %w", err)
		}
		d.TotalDoctors = n
		return nil
	})
	g.Go(func() error {
		n, err := s.doctors.CountDoctors(ctx, staff.DoctorFilter{Status: triage.Available})
		if err != nil {
			return fmt.Errorf("count available doctors: %w", err)
		}
		d.AvailableDoctors = n
		return nil
	})
	g.Go(func() error {
		n, err := s.hospitals.CountActive(ctx)
		if err != nil {
			return fmt.Errorf("count hospitals: %w", err)
		}
		d.ActiveHospitals = n
		return nil
	})
	g.Go(func() error {
		n, err := s.cases.CountCases(ctx)
		if err != nil {
			return fmt.Errorf("count cases: %w", err)
		}
		d.TotalCases = n
		return nil
	})
	g.Go(func() error {
		n, err := s.cases.CountCases(ctx, activeStatuses...)
		if err != nil {
			return fmt.Errorf("count active cases: %w", err)
		}
		d.ActiveCases = n
		return nil
	})
	g.Go(func() error {
		view, err := s.cases.OpenQueue(ctx, emergency.QueueFilter{})
		if err != nil {
			return fmt.Errorf("queue summary: %w", err)
		}
		d.Queue = view.Summary
		return nil
	})
	g.Go(func() error {
		recent, _, err := s.cases.ListCases(ctx, RecentCaseLimit, 0)
		if err != nil {
			return fmt.Errorf("recent cases: %w", err)
		}
		d.RecentCases = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("dashboard query failed")
		return nil, err
	}
	if d.RecentCases == nil {
		d.RecentCases = []*emergency.Case{}
	}
	return &d, nil
}
