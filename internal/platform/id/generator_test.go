package id

import (
	"strings"
	"testing"
)

func TestLocalGenerator_NewID(t *testing.T) {
	gen := NewLocalGenerator()

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new local id: %v", err)
	}
	if first == "" {
		t.Fatalf("expected non-empty id")
	}
	if !strings.Contains(first, "-") {
		t.Fatalf("expected time-suffix separator in %q", first)
	}

	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new local id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestServerGenerator_NewID(t *testing.T) {
	gen := NewServerGenerator()

	value, err := gen.NewID()
	if err != nil {
		t.Fatalf("new server id: %v", err)
	}
	if len(value) != 24 {
		t.Fatalf("expected 24-char id, got %d chars: %q", len(value), value)
	}
	if !LooksLikeServerID(value) {
		t.Fatalf("expected generated id %q to match the server shape", value)
	}
}

func TestLooksLikeServerID(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"507F1F77BCF86CD799439011", false},
		{"507f1f77bcf86cd79943901", false},
		{"1757000000000-a1b2c3d4", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := LooksLikeServerID(tc.value); got != tc.want {
			t.Fatalf("LooksLikeServerID(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}
