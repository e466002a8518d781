package utils

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-03-01", "2025-03-01", true},
		{"01/03/2025", "2025-03-01", true},
		{" 2025-12-31 ", "2025-12-31", true},
		{"31/12/2025", "2025-12-31", true},
		{"2025-13-01", "", false},
		{"32/01/2025", "", false},
		{"demain", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeDate(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("NormalizeDate(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("NormalizeDate(%q) should fail, got %q", tc.in, got)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"08:00", "08:00", true},
		{"8:00", "08:00", true},
		{"23:59", "23:59", true},
		{"08:00:30", "08:00", true},
		{" 7:05 ", "07:05", true},
		{"24:00", "", false},
		{"8h00", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeClock(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("NormalizeClock(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("NormalizeClock(%q) should fail, got %q", tc.in, got)
		}
	}
}
