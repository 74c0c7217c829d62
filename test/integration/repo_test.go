//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/emergency"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/facility"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/staff"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/platform/db"
)

func createDoctor(t *testing.T, ctx context.Context, code, name string, spec triage.Specialization, status triage.Availability) *staff.Doctor {
	t.Helper()
	d := &staff.Doctor{DoctorCode: code, Name: name, Specialization: spec, Phone: ptrStr("9876543210"), Status: status}
	if err := staff.NewDoctorRepoPG(globalDB.Pool).Create(ctx, d); err != nil {
		t.Fatalf("create doctor %s: %v", code, err)
	}
	return d
}

func createHospital(t *testing.T, ctx context.Context, name string, load triage.LoadLevel) *facility.Hospital {
	t.Helper()
	h := &facility.Hospital{Name: name, Address: "New Delhi", Phone: "011-26588500",
		EmergencyLoad: load, IsActive: true, TotalBeds: 100, AvailableBeds: 10}
	if err := facility.NewHospitalRepoPG(globalDB.Pool).Create(ctx, h); err != nil {
		t.Fatalf("create hospital %s: %v", name, err)
	}
	return h
}

func TestDoctorRepo(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)
	repo := staff.NewDoctorRepoPG(globalDB.Pool)

	sharma := createDoctor(t, ctx, "DOC001", "Dr. Sharma", triage.SpecEmergency, triage.Available)
	createDoctor(t, ctx, "DOC004", "Dr. Patel", triage.SpecCardiology, triage.Busy)

	t.Run("GetByCode", func(t *testing.T) {
		got, err := repo.GetByCode(ctx, "DOC001")
		if err != nil {
			t.Fatalf("GetByCode: %v", err)
		}
		if got.ID != sharma.ID || got.Name != "Dr. Sharma" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := repo.GetByCode(ctx, "DOC999"); !errors.Is(err, staff.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListAvailable", func(t *testing.T) {
		ds, err := repo.ListAvailable(ctx)
		if err != nil {
			t.Fatalf("ListAvailable: %v", err)
		}
		if len(ds) != 1 || ds[0].DoctorCode != "DOC001" {
			t.Errorf("available = %v", ds)
		}
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		if err := repo.UpdateStatus(ctx, sharma.ID, triage.Offline); err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		n, err := repo.Count(ctx, staff.DoctorFilter{})
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if n != 2 {
			t.Errorf("count = %d, want 2", n)
		}
	})
}

func TestHospitalRepo(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)
	repo := facility.NewHospitalRepoPG(globalDB.Pool)

	createHospital(t, ctx, "Safdarjung Hospital, Delhi", triage.LoadHigh)
	createHospital(t, ctx, "AIIMS Delhi", triage.LoadVeryHigh)

	hs, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(hs) != 2 || hs[0].Name != "AIIMS Delhi" {
		t.Fatalf("active = %v", hs)
	}

	if _, err := repo.GetByName(ctx, "Nowhere"); !errors.Is(err, facility.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCaseRepo_DuplicateTokenKeepsTxUsable(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)
	repo := emergency.NewCaseRepoPG(globalDB.Pool)

	newCase := func(token string) *emergency.Case {
		return &emergency.Case{Token: token, Name: "Asha", Symptom: triage.SymptomFever,
			Priority: triage.PriorityMedium, Score: 3, Status: triage.StatusWaiting, Mode: triage.ModeHospital}
	}

	err := db.WithTx(ctx, globalDB.Pool, func(ctx context.Context) error {
		if err := repo.Create(ctx, newCase("SC-1111")); err != nil {
			return err
		}
		if err := repo.Create(ctx, newCase("SC-1111")); !errors.Is(err, emergency.ErrDuplicateToken) {
			t.Errorf("second create err = %v, want ErrDuplicateToken", err)
		}
		return repo.Create(ctx, newCase("SC-2222"))
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	n, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestCaseRepo_ProgressAndJoin(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)
	repo := emergency.NewCaseRepoPG(globalDB.Pool)
	doc := createDoctor(t, ctx, "DOC002", "Dr. Mehta", triage.SpecGeneral, triage.Available)

	c := &emergency.Case{Token: "SC-3333", Name: "Ravi", Symptom: triage.SymptomTrauma,
		Priority: triage.PriorityCritical, Score: 1, DoctorID: &doc.ID,
		Status: triage.StatusDoctorAssigned, Mode: triage.ModeHospital}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdateProgress(ctx, c.ID, triage.StatusInProgress, "10 mins"); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	got, err := repo.GetByToken(ctx, "SC-3333")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.Status != triage.StatusInProgress || got.ETA != "10 mins" || got.Score != 1 {
		t.Errorf("got %+v", got)
	}
	if got.DoctorName == nil || *got.DoctorName != "Dr. Mehta" {
		t.Errorf("doctor name = %v", got.DoctorName)
	}

	if err := repo.UpdateProgress(ctx, uuid.New(), triage.StatusCompleted, ""); !errors.Is(err, emergency.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func newEmergencyService() *emergency.Service {
	pool := globalDB.Pool
	staffSvc := staff.NewService(staff.NewDoctorRepoPG(pool), staff.NewActivityRepoPG(pool), testLogger)
	svc := emergency.NewService(emergency.NewCaseRepoPG(pool), emergency.NewHomeCareRepoPG(pool),
		staffSvc, facility.NewService(facility.NewHospitalRepoPG(pool)), staffSvc, testLogger, emergency.Config{})
	svc.SetTxRunner(func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	})
	return svc
}

func TestEmergencyService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)
	cardio := createDoctor(t, ctx, "DOC004", "Dr. Patel", triage.SpecCardiology, triage.Available)
	createDoctor(t, ctx, "DOC002", "Dr. Mehta", triage.SpecGeneral, triage.Available)
	maxH := createHospital(t, ctx, "Max Super Speciality Hospital, Delhi", triage.LoadLow)
	createHospital(t, ctx, "AIIMS Delhi", triage.LoadVeryHigh)

	svc := newEmergencyService()

	critical, err := svc.CreateCase(ctx, emergency.CaseInput{Name: "Asha", Phone: "9999999999", Symptom: "pain"})
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if critical.DoctorID == nil || *critical.DoctorID != cardio.ID {
		t.Errorf("doctor = %v, want cardiologist", critical.DoctorID)
	}
	if critical.HospitalID == nil || *critical.HospitalID != maxH.ID {
		t.Errorf("hospital = %v, want low-load hospital", critical.HospitalID)
	}
	if critical.Status != triage.StatusDoctorAssigned {
		t.Errorf("status = %s", critical.Status)
	}

	if _, err := svc.CreateCase(ctx, emergency.CaseInput{Name: "Ravi", Symptom: "routine"}); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	view, err := svc.OpenQueue(ctx, emergency.QueueFilter{})
	if err != nil {
		t.Fatalf("OpenQueue: %v", err)
	}
	if view.Total != 2 || view.Cases[0].Token != critical.Token {
		t.Errorf("queue = %+v", view.Cases)
	}

	hc, err := svc.CreateHomeCare(ctx, emergency.HomeCareInput{Name: "Meera", Phone: "9888888888",
		Address: "Saket", Issue: "fever", Mode: "home_visit"})
	if err != nil {
		t.Fatalf("CreateHomeCare: %v", err)
	}
	got, err := svc.GetHomeCare(ctx, hc.Token)
	if err != nil {
		t.Fatalf("GetHomeCare: %v", err)
	}
	if got.CaseID == nil {
		t.Error("home care request should link its emergency case")
	}
}
