package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/facility"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/staff"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

type doctorStore interface {
	GetByCode(ctx context.Context, code string) (*staff.Doctor, error)
	Create(ctx context.Context, d *staff.Doctor) error
}

type hospitalStore interface {
	GetByName(ctx context.Context, name string) (*facility.Hospital, error)
	Create(ctx context.Context, h *facility.Hospital) error
}

func strPtr(s string) *string { return &s }

func demoDoctors() []*staff.Doctor {
	return []*staff.Doctor{
		{DoctorCode: "DOC001", Name: "Dr. Sharma", Specialization: triage.SpecEmergency, Phone: strPtr("9876543210"), Email: strPtr("sharma@hms.com"), Status: triage.Available},
		{DoctorCode: "DOC002", Name: "Dr. Mehta", Specialization: triage.SpecGeneral, Phone: strPtr("9876543211"), Email: strPtr("mehta@hms.com"), Status: triage.Available},
		{DoctorCode: "DOC003", Name: "Dr. Verma", Specialization: triage.SpecOutpatient, Phone: strPtr("9876543212"), Email: strPtr("verma@hms.com"), Status: triage.Available},
		{DoctorCode: "DOC004", Name: "Dr. Patel", Specialization: triage.SpecCardiology, Phone: strPtr("9876543213"), Email: strPtr("patel@hms.com"), Status: triage.Busy},
		{DoctorCode: "DOC005", Name: "Dr. Gupta", Specialization: triage.SpecOrthopedics, Phone: strPtr("9876543214"), Email: strPtr("gupta@hms.com"), Status: triage.Available},
	}
}

func demoHospitals() []*facility.Hospital {
	return []*facility.Hospital{
		{Name: "AIIMS Delhi", Address: "Sri Aurobindo Marg, Ansari Nagar, New Delhi - 110029", Phone: "011-26588500",
			EmergencyLoad: triage.LoadVeryHigh, IsActive: true, TotalBeds: 2000, AvailableBeds: 150},
		{Name: "Safdarjung Hospital, Delhi", Address: "Ansari Nagar West, New Delhi - 110029", Phone: "011-26165060",
			EmergencyLoad: triage.LoadHigh, IsActive: true, TotalBeds: 1500, AvailableBeds: 300},
		{Name: "Max Super Speciality Hospital, Delhi", Address: "Press Enclave Road, Saket, New Delhi - 110017", Phone: "011-26515050",
			EmergencyLoad: triage.LoadLow, IsActive: true, TotalBeds: 500, AvailableBeds: 200},
	}
}

type seedResult struct {
	Doctors   int
	Hospitals int
	Skipped   int
}

// seed inserts the demo doctors and hospitals that are not already present,
// keyed by doctor code and hospital name.
func seed(ctx context.Context, doctors doctorStore, hospitals hospitalStore) (seedResult, error) {
	var res seedResult
	for _, d := range demoDoctors() {
		_, err := doctors.GetByCode(ctx, d.DoctorCode)
		switch {
		case err == nil:
			res.Skipped++
			continue
		case !errors.Is(err, staff.ErrNotFound):
			return res, fmt.Errorf("look up doctor %s: %w", d.DoctorCode, err)
		}
		if err := doctors.Create(ctx, d); err != nil {
			return res, fmt.Errorf("create doctor %s: %w", d.DoctorCode, err)
		}
		res.Doctors++
	}

	for _, h := range demoHospitals() {
		_, err := hospitals.GetByName(ctx, h.Name)
		switch {
		case err == nil:
			res.Skipped++
			continue
		case !errors.Is(err, facility.ErrNotFound):
			return res, fmt.Errorf("look up hospital %q: %w", h.Name, err)
		}
		if err := hospitals.Create(ctx, h); err != nil {
			return res, fmt.Errorf("create hospital %q: %w", h.Name, err)
		}
		res.Hospitals++
	}
	return res, nil
}
