package triage

import (
	"testing"

	"github.com/google/uuid"
)

func doctor(code string, spec Specialization, avail Availability) DoctorCandidate {
	return DoctorCandidate{ID: uuid.New(), Code: code, Specialization: spec, Availability: avail}
}

func TestSelectDoctor_PainPrefersCardiologyWhenNoEmergency(t *testing.T) {
	cardio := doctor("DOC004", SpecCardiology, Available)
	general := doctor("DOC002", SpecGeneral, Available)

	got, ok := SelectDoctor(SymptomPain, []DoctorCandidate{general, cardio})
	if !ok {
		t.Fatal("expected a doctor")
	}
	if got.ID != cardio.ID {
		t.Errorf("selected %s, want cardiology doctor %s", got.Code, cardio.Code)
	}
}

func TestSelectDoctor_EmergencyBeforeCardiology(t *testing.T) {
	cardio := doctor("DOC001", SpecCardiology, Available)
	er := doctor("DOC009", SpecEmergency, Available)

	got, _ := SelectDoctor(SymptomStroke, []DoctorCandidate{cardio, er})
	if got.ID != er.ID {
		t.Errorf("selected %s, want emergency doctor", got.Code)
	}
}

func TestSelectDoctor_WeaknessFallsBackToAnyAvailable(t *testing.T) {
	busyGeneral := doctor("DOC002", SpecGeneral, Busy)
	er := doctor("DOC001", SpecEmergency, Available)

	got, ok := SelectDoctor(SymptomWeakness, []DoctorCandidate{busyGeneral, er})
	if !ok {
		t.Fatal("expected fallback doctor")
	}
	if got.ID != er.ID {
		t.Errorf("selected %s, want emergency doctor fallback", got.Code)
	}
}

func TestSelectDoctor_NoneAvailable(t *testing.T) {
	roster := []DoctorCandidate{
		doctor("DOC001", SpecEmergency, Busy),
		doctor("DOC002", SpecGeneral, Offline),
	}
	if _, ok := SelectDoctor(SymptomPain, roster); ok {
		t.Error("expected no doctor when nobody is available")
	}
	if _, ok := SelectDoctor(SymptomPain, nil); ok {
		t.Error("expected no doctor for empty roster")
	}
}

func TestSelectDoctor_UnknownSymptomUsesGeneral(t *testing.T) {
	er := doctor("DOC001", SpecEmergency, Available)
	general := doctor("DOC005", SpecGeneral, Available)

	got, _ := SelectDoctor(Symptom("rash"), []DoctorCandidate{er, general})
	if got.ID != general.ID {
		t.Errorf("selected %s, want general doctor", got.Code)
	}
}

func TestSelectDoctor_DeterministicTieBreak(t *testing.T) {
	a := doctor("DOC010", SpecEmergency, Available)
	b := doctor("DOC003", SpecEmergency, Available)
	c := doctor("DOC007", SpecEmergency, Available)

	orders := [][]DoctorCandidate{{a, b, c}, {c, a, b}, {b, c, a}}
	for _, roster := range orders {
		for i := 0; i < 5; i++ {
			got, _ := SelectDoctor(SymptomBurn, roster)
			if got.ID != b.ID {
				t.Fatalf("selected %s, want DOC003 regardless of roster order", got.Code)
			}
		}
	}
}

func TestSelectDoctor_DoesNotReorderInput(t *testing.T) {
	roster := []DoctorCandidate{
		doctor("DOC002", SpecGeneral, Available),
		doctor("DOC001", SpecGeneral, Available),
	}
	first := roster[0].ID
	SelectDoctor(SymptomFever, roster)
	if roster[0].ID != first {
		t.Error("SelectDoctor must not mutate the snapshot")
	}
}

func TestCandidateSpecializations(t *testing.T) {
	got := CandidateSpecializations(SymptomTrauma)
	if len(got) != 2 || got[0] != SpecEmergency || got[1] != SpecOrthopedics {
		t.Errorf("trauma candidates = %v", got)
	}
	got[0] = SpecPediatrics
	if CandidateSpecializations(SymptomTrauma)[0] != SpecEmergency {
		t.Error("candidate table must not be mutable through the returned slice")
	}
}

func hospital(name string, load LoadLevel, active bool) HospitalCandidate {
	return HospitalCandidate{ID: uuid.New(), Name: name, Load: load, Active: active}
}

func TestSelectHospital_LowBeforeMedium(t *testing.T) {
	medium := hospital("Alpha", LoadMedium, true)
	low := hospital("Zeta", LoadLow, true)

	got, ok := SelectHospital([]HospitalCandidate{medium, low})
	if !ok {
		t.Fatal("expected a hospital")
	}
	if got.ID != low.ID {
		t.Errorf("selected %s, want low-load hospital", got.Name)
	}
}

func TestSelectHospital_FallsBackToAnyActive(t *testing.T) {
	busy := hospital("Safdarjung", LoadHigh, true)
	packed := hospital("AIIMS", LoadVeryHigh, true)
	closed := hospital("Closed", LoadLow, false)

	got, ok := SelectHospital([]HospitalCandidate{busy, closed, packed})
	if !ok {
		t.Fatal("expected fallback hospital")
	}
	if got.ID != packed.ID {
		t.Errorf("selected %s, want first active by name (AIIMS)", got.Name)
	}
}

func TestSelectHospital_NoneActive(t *testing.T) {
	if _, ok := SelectHospital([]HospitalCandidate{hospital("X", LoadLow, false)}); ok {
		t.Error("expected no hospital when none active")
	}
}

func TestSelectHospital_SameLoadTieBreakByName(t *testing.T) {
	b := hospital("Bravo", LoadLow, true)
	a := hospital("Alpha", LoadLow, true)
	got, _ := SelectHospital([]HospitalCandidate{b, a})
	if got.ID != a.ID {
		t.Errorf("selected %s, want Alpha", got.Name)
	}
}

func TestLoadLevel_Rank(t *testing.T) {
	if !(LoadLow.Rank() < LoadMedium.Rank() && LoadMedium.Rank() < LoadHigh.Rank() && LoadHigh.Rank() < LoadVeryHigh.Rank()) {
		t.Error("load levels are not ordered")
	}
	if LoadLevel("bogus").Rank() <= LoadVeryHigh.Rank() {
		t.Error("unknown load should rank last")
	}
	if LoadVeryHigh.Label() != "Very High" {
		t.Errorf("label = %q", LoadVeryHigh.Label())
	}
}
