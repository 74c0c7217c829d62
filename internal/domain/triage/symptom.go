// Package triage holds the decision rules applied when an emergency case is
// created: symptom classification, tracking tokens, doctor and hospital
// selection, the case status machine and the open-queue ordering. Everything
// here is a pure function of its inputs; callers pass in directory snapshots.
package triage

// Symptom is the fixed symptom code captured at intake.
type Symptom string

const (
	SymptomPain     Symptom = "pain"
	SymptomTrauma   Symptom = "trauma"
	SymptomBurn     Symptom = "burn"
	SymptomFever    Symptom = "fever"
	SymptomStroke   Symptom = "stroke"
	SymptomWeakness Symptom = "weakness"
	SymptomRoutine  Symptom = "routine"
)

var symptomLabels = map[Symptom]string{
	SymptomPain:     "Chest Pain / Breathing Difficulty",
	SymptomTrauma:   "Severe Physical Injury",
	SymptomBurn:     "Burns",
	SymptomFever:    "High Fever / Flu",
	SymptomStroke:   "Stroke Symptoms",
	SymptomWeakness: "Severe Weakness",
	SymptomRoutine:  "Routine Checkup",
}

// Label returns the display label, or the raw code for unknown symptoms.
func (s Symptom) Label() string {
	if l, ok := symptomLabels[s]; ok {
		return l
	}
	return string(s)
}

// Known reports whether s is one of the fixed symptom codes.
func (s Symptom) Known() bool {
	_, ok := symptomLabels[s]
	return ok
}

// Priority is the clinical priority label derived from the symptom.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// ParsePriority validates a priority label.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(s); p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return p, true
	}
	return "", false
}

// Score returns the numeric urgency rank for p. Lower is more urgent.
func (p Priority) Score() int {
	switch p {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	default:
		return 4
	}
}

var symptomPriority = map[Symptom]Priority{
	SymptomPain:     PriorityCritical,
	SymptomStroke:   PriorityCritical,
	SymptomTrauma:   PriorityHigh,
	SymptomBurn:     PriorityHigh,
	SymptomWeakness: PriorityMedium,
	SymptomFever:    PriorityMedium,
	SymptomRoutine:  PriorityLow,
}

// Classify maps a symptom code to its priority and score. Codes outside the
// fixed set classify as (Low, 4); this never fails.
func Classify(s Symptom) (Priority, int) {
	p, ok := symptomPriority[s]
	if !ok {
		p = PriorityLow
	}
	return p, p.Score()
}
