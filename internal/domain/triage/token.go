package triage

import (
	"math/rand/v2"
	"strings"
)

// CareMode is the channel through which care is delivered.
type CareMode string

const (
	ModeHospital     CareMode = "Hospital Emergency"
	ModeHomeAssist   CareMode = "Home Assistance"
	ModeHomeVisit    CareMode = "Doctor Home Visit"
	ModeDoctorOnCall CareMode = "Doctor On Call"
)

// ParseCareMode validates a care mode label. An empty label means ModeHospital.
func ParseCareMode(s string) (CareMode, bool) {
	switch m := CareMode(s); m {
	case "":
		return ModeHospital, true
	case ModeHospital, ModeHomeAssist, ModeHomeVisit, ModeDoctorOnCall:
		return m, true
	}
	return "", false
}

const (
	PrefixHomeCare     = "HC-"
	PrefixStandardCare = "SC-"
	tokenDigits        = 4
)

// TokenPrefix returns "HC-" when the mode label mentions Home or Call, else "SC-".
func TokenPrefix(mode CareMode) string {
	if strings.Contains(string(mode), "Home") || strings.Contains(string(mode), "Call") {
		return PrefixHomeCare
	}
	return PrefixStandardCare
}

// TokenGenerator produces human-readable tracking tokens. Tokens are not
// unique by construction; the case store enforces uniqueness and callers
// regenerate on collision.
type TokenGenerator struct {
	digit func() int
}

// NewTokenGenerator returns a generator backed by math/rand/v2.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{digit: func() int { return rand.IntN(10) }}
}

// NewTokenGeneratorFrom returns a generator drawing digits from next. Values
// are reduced modulo 10.
func NewTokenGeneratorFrom(next func() int) *TokenGenerator {
	return &TokenGenerator{digit: next}
}

// NewToken returns a prefix for mode followed by four decimal digits.
func (g *TokenGenerator) NewToken(mode CareMode) string {
	var b strings.Builder
	b.WriteString(TokenPrefix(mode))
	for i := 0; i < tokenDigits; i++ {
		d := g.digit() % 10
		if d < 0 {
			d = -d
		}
		b.WriteByte(byte('0' + d))
	}
	return b.String()
}

// NewHomeCareToken returns an "HC-" token regardless of mode.
func (g *TokenGenerator) NewHomeCareToken() string {
	return g.NewToken(ModeHomeVisit)
}
