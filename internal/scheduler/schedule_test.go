package scheduler

import (
	"testing"
	"time"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		in        string
		wantEvery time.Duration
		wantCron  string
	}{
		{"every 15 minutes", 15 * time.Minute, ""},
		{"Every 1 minute", time.Minute, ""},
		{"every hour", time.Hour, ""},
		{"every 2 hours", 2 * time.Hour, ""},
		{"every 2h", 2 * time.Hour, ""},
		{"15m", 15 * time.Minute, ""},
		{"every 30 seconds", 30 * time.Second, ""},
		{"every day", 24 * time.Hour, ""},
		{"*/15 * * * *", 0, "*/15 * * * *"},
		{"0 6 * * 1-5", 0, "0 6 * * 1-5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSchedule(tt.in)
			if err != nil {
				t.Fatalf("ParseSchedule(%q) returned error: %v", tt.in, err)
			}
			if got.Every != tt.wantEvery || got.Cron != tt.wantCron {
				t.Errorf("ParseSchedule(%q) = %+v, want every=%v cron=%q", tt.in, got, tt.wantEvery, tt.wantCron)
			}
		})
	}
}

func TestParseSchedule_Invalid(t *testing.T) {
	for _, in := range []string{"", "sometimes", "every 0 minutes", "every -5m", "every 3 fortnights", "61 * * * *"} {
		if _, err := ParseSchedule(in); err == nil {
			t.Errorf("ParseSchedule(%q) returned nil error", in)
		}
	}
}
