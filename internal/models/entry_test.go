package models

import "testing"

func TestEntryKey(t *testing.T) {
	if got := EntryKey("u1", "2026-03-15"); got != "u1_2026-03-15" {
		t.Errorf("EntryKey() = %q, want %q", got, "u1_2026-03-15")
	}
}

func TestValidRating(t *testing.T) {
	tests := []struct {
		rating int
		want   bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-2, false},
	}
	for _, tt := range tests {
		if got := ValidRating(tt.rating); got != tt.want {
			t.Errorf("ValidRating(%d) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		date string
		year int
		want bool
	}{
		{"2026-01-01", 2026, true},
		{"2026-12-31", 2026, true},
		{"2026-02-29", 2026, false}, // 2026 is not a leap year
		{"2025-06-01", 2026, false},
		{"2025-06-01", 2025, true},
		{"2028-02-29", 2028, true},
		{"2026-01-01", 2027, false},
		{"26-06-01", 2026, false},
		{"", 2026, false},
	}
	for _, tt := range tests {
		if got := ValidDate(tt.date, tt.year); got != tt.want {
			t.Errorf("ValidDate(%q, %d) = %v, want %v", tt.date, tt.year, got, tt.want)
		}
	}
}

func TestUserLabel(t *testing.T) {
	if got := (User{Email: "a@b.c"}).Label(); got != "a@b.c" {
		t.Errorf("Label() = %q, want email fallback", got)
	}
	if got := (User{Email: "a@b.c", DisplayName: "Ann"}).Label(); got != "Ann" {
		t.Errorf("Label() = %q, want display name", got)
	}
}
