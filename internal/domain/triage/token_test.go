package triage

import (
	"regexp"
	"testing"
)

var tokenPattern = regexp.MustCompile(`^(HC|SC)-[0-9]{4}$`)

func TestTokenPrefix(t *testing.T) {
	tests := []struct {
		mode CareMode
		want string
	}{
		{ModeHospital, "SC-"},
		{ModeHomeAssist, "HC-"},
		{ModeHomeVisit, "HC-"},
		{ModeDoctorOnCall, "HC-"},
		{CareMode("Walk-in"), "SC-"},
	}
	for _, tt := range tests {
		if got := TokenPrefix(tt.mode); got != tt.want {
			t.Errorf("TokenPrefix(%q) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestNewToken_Format(t *testing.T) {
	g := NewTokenGenerator()
	for i := 0; i < 200; i++ {
		for _, m := range []CareMode{ModeHospital, ModeHomeAssist, ModeHomeVisit, ModeDoctorOnCall} {
			tok := g.NewToken(m)
			if !tokenPattern.MatchString(tok) {
				t.Fatalf("token %q does not match format", tok)
			}
			if tok[:3] != TokenPrefix(m) {
				t.Fatalf("token %q has wrong prefix for mode %q", tok, m)
			}
		}
	}
}

func TestNewToken_DeterministicSource(t *testing.T) {
	digits := []int{1, 2, 3, 4, 15, -6, 7, 8}
	i := 0
	g := NewTokenGeneratorFrom(func() int {
		d := digits[i%len(digits)]
		i++
		return d
	})
	if got := g.NewToken(ModeHospital); got != "SC-1234" {
		t.Errorf("first token = %q, want SC-1234", got)
	}
	if got := g.NewHomeCareToken(); got != "HC-5678" {
		t.Errorf("second token = %q, want HC-5678", got)
	}
}

func TestParseCareMode(t *testing.T) {
	m, ok := ParseCareMode("")
	if !ok || m != ModeHospital {
		t.Errorf("empty mode = (%q, %v), want hospital", m, ok)
	}
	if _, ok := ParseCareMode("Teleport"); ok {
		t.Error("expected unknown mode to be rejected")
	}
}
