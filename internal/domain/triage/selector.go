package triage

import (
	"sort"

	"github.com/google/uuid"
)

// Specialization is a doctor's clinical specialization.
type Specialization string

const (
	SpecGeneral     Specialization = "general"
	SpecCardiology  Specialization = "cardiology"
	SpecOrthopedics Specialization = "orthopedics"
	SpecEmergency   Specialization = "emergency"
	SpecPediatrics  Specialization = "pediatrics"
	SpecOutpatient  Specialization = "outpatient"
)

// ParseSpecialization validates a specialization code.
func ParseSpecialization(s string) (Specialization, bool) {
	switch sp := Specialization(s); sp {
	case SpecGeneral, SpecCardiology, SpecOrthopedics, SpecEmergency, SpecPediatrics, SpecOutpatient:
		return sp, true
	}
	return "", false
}

// Availability is a doctor's current availability.
type Availability string

const (
	Available Availability = "available"
	Busy      Availability = "busy"
	Offline   Availability = "offline"
)

// ParseAvailability validates an availability code.
func ParseAvailability(s string) (Availability, bool) {
	switch a := Availability(s); a {
	case Available, Busy, Offline:
		return a, true
	}
	return "", false
}

// DoctorCandidate is the slice of a doctor record the selector looks at.
type DoctorCandidate struct {
	ID             uuid.UUID
	Code           string
	Specialization Specialization
	Availability   Availability
}

var candidateSpecializations = map[Symptom][]Specialization{
	SymptomPain:     {SpecEmergency, SpecCardiology},
	SymptomTrauma:   {SpecEmergency, SpecOrthopedics},
	SymptomBurn:     {SpecEmergency},
	SymptomStroke:   {SpecEmergency, SpecCardiology},
	SymptomWeakness: {SpecGeneral},
	SymptomFever:    {SpecGeneral, SpecOutpatient},
	SymptomRoutine:  {SpecGeneral, SpecOutpatient},
}

// CandidateSpecializations returns the specializations consulted for s, in
// preference order. Unknown symptoms fall back to general medicine.
func CandidateSpecializations(s Symptom) []Specialization {
	if specs, ok := candidateSpecializations[s]; ok {
		out := make([]Specialization, len(specs))
		copy(out, specs)
		return out
	}
	return []Specialization{SpecGeneral}
}

// SelectDoctor picks the first available doctor in the first candidate
// specialization that has one, falling back to any available doctor. Within
// a bucket doctors are ordered by Code, then ID. The second return value is
// false when nobody is available; that is a valid outcome, not an error.
func SelectDoctor(s Symptom, roster []DoctorCandidate) (DoctorCandidate, bool) {
	available := make([]DoctorCandidate, 0, len(roster))
	for _, d := range roster {
		if d.Availability == Available {
			available = append(available, d)
		}
	}
	if len(available) == 0 {
		return DoctorCandidate{}, false
	}
	sort.SliceStable(available, func(i, j int) bool {
		if available[i].Code != available[j].Code {
			return available[i].Code < available[j].Code
		}
		return available[i].ID.String() < available[j].ID.String()
	})

	for _, spec := range CandidateSpecializations(s) {
		for _, d := range available {
			if d.Specialization == spec {
				return d, true
			}
		}
	}
	return available[0], true
}

// LoadLevel is a hospital's current emergency load.
type LoadLevel string

const (
	LoadLow      LoadLevel = "low"
	LoadMedium   LoadLevel = "medium"
	LoadHigh     LoadLevel = "high"
	LoadVeryHigh LoadLevel = "very_high"
)

var loadRank = map[LoadLevel]int{
	LoadLow:      0,
	LoadMedium:   1,
	LoadHigh:     2,
	LoadVeryHigh: 3,
}

var loadLabels = map[LoadLevel]string{
	LoadLow:      "Low",
	LoadMedium:   "Medium",
	LoadHigh:     "High",
	LoadVeryHigh: "Very High",
}

// ParseLoadLevel validates a load level code.
func ParseLoadLevel(s string) (LoadLevel, bool) {
	l := LoadLevel(s)
	_, ok := loadRank[l]
	return l, ok
}

// Rank orders load levels low < medium < high < very_high. Unknown levels
// rank after very_high.
func (l LoadLevel) Rank() int {
	if r, ok := loadRank[l]; ok {
		return r
	}
	return len(loadRank)
}

// Label returns the display label of l.
func (l LoadLevel) Label() string {
	if s, ok := loadLabels[l]; ok {
		return s
	}
	return string(l)
}

// HospitalCandidate is the slice of a hospital record the selector looks at.
// Bed counts are not part of it: capacity does not gate selection.
type HospitalCandidate struct {
	ID     uuid.UUID
	Name   string
	Load   LoadLevel
	Active bool
}

// SelectHospital prefers active hospitals with low or medium load, lowest load
// first. Otherwise it falls back to any active hospital. Ties are broken by
// Name, then ID. The second return value is false when none is active.
func SelectHospital(network []HospitalCandidate) (HospitalCandidate, bool) {
	active := make([]HospitalCandidate, 0, len(network))
	for _, h := range network {
		if h.Active {
			active = append(active, h)
		}
	}
	if len(active) == 0 {
		return HospitalCandidate{}, false
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Name != active[j].Name {
			return active[i].Name < active[j].Name
		}
		return active[i].ID.String() < active[j].ID.String()
	})

	var best *HospitalCandidate
	for i := range active {
		h := &active[i]
		if h.Load != LoadLow && h.Load != LoadMedium {
			continue
		}
		if best == nil || h.Load.Rank() < best.Load.Rank() {
			best = h
		}
	}
	if best != nil {
		return *best, true
	}
	return active[0], true
}
