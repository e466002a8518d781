package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate       = "2006-01-02"
	layoutDateFrench = "02/01/2006"
	layoutClock      = "15:04"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// NormalizeDate accepts ISO (YYYY-MM-DD) or French (DD/MM/YYYY) input and
// always returns the ISO form. The mobile app historically produced both.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(layoutDate, s); err == nil {
		return t.Format(layoutDate), nil
	}
	if t, err := time.Parse(layoutDateFrench, s); err == nil {
		return t.Format(layoutDate), nil
	}
	return "", fmt.Errorf("format de date invalide (attendu YYYY-MM-DD): %q", s)
}

// NormalizeClock accepts "HH:MM", "H:MM" or "HH:MM:SS" and returns a
// zero-padded 24h "HH:MM".
func NormalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 8 {
		if t, err := time.Parse("15:04:05", s); err == nil {
			return t.Format(layoutClock), nil
		}
	}
	if len(s) == 4 && strings.Contains(s, ":") {
		s = "0" + s
	}
	t, err := time.Parse(layoutClock, s)
	if err != nil {
		return "", fmt.Errorf("format d'heure invalide (attendu HH:MM): %q", s)
	}
	return t.Format(layoutClock), nil
}
