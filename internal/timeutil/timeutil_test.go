package timeutil

import (
	"testing"
	"time"
)

func TestRelative(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"sub-second", 500 * time.Millisecond, "0 seconds"},
		{"one second", time.Second, "1 second"},
		{"seconds", 45 * time.Second, "45 seconds"},
		{"one minute", 60 * time.Second, "1 minute"},
		{"minutes", 59 * time.Minute, "59 minutes"},
		{"one hour", time.Hour, "1 hour"},
		{"hours", 23*time.Hour + 59*time.Minute, "23 hours"},
		{"one day", 24 * time.Hour, "1 day"},
		{"days", 6 * 24 * time.Hour, "6 days"},
		{"one week", 7 * 24 * time.Hour, "1 week"},
		{"weeks", 29 * 24 * time.Hour, "4 weeks"},
		{"one month", 30 * 24 * time.Hour, "1 month"},
		{"months", 364 * 24 * time.Hour, "12 months"},
		{"one year", 365 * 24 * time.Hour, "1 year"},
		{"years", 3 * 365 * 24 * time.Hour, "3 years"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Relative(now.Add(-tt.ago), now)
			if got != tt.want {
				t.Errorf("Relative(-%v) = %q, want %q", tt.ago, got, tt.want)
			}
		})
	}
}

func TestRelative_FutureClampsToZero(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Clock skew can put a fresh post slightly in the future
	got := Relative(now.Add(2*time.Minute), now)
	if got != "0 seconds" {
		t.Errorf("Relative(future) = %q, want %q", got, "0 seconds")
	}
}

func TestDateLayouts(t *testing.T) {
	joined := time.Date(2023, 3, 15, 8, 30, 0, 0, time.UTC)
	dob := time.Date(1990, 7, 4, 0, 0, 0, 0, time.UTC)

	if got := MonthYear(joined); got != "March 2023" {
		t.Errorf("MonthYear = %q, want %q", got, "March 2023")
	}
	if got := LongDate(dob); got != "July 4, 1990" {
		t.Errorf("LongDate = %q, want %q", got, "July 4, 1990")
	}
	if got := ISODate(dob); got != "1990-07-04" {
		t.Errorf("ISODate = %q, want %q", got, "1990-07-04")
	}
}
