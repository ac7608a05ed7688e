package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule is either a fixed interval or a 5-field cron expression.
type Schedule struct {
	Every time.Duration
	Cron  string
}

func (s Schedule) String() string {
	if s.Cron != "" {
		return "cron(" + s.Cron + ")"
	}
	return "every " + s.Every.String()
}

var units = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
}

// ParseSchedule accepts human phrases ("every 15 minutes", "every hour"),
// Go durations with or without "every" ("15m", "every 2h") and standard
// cron expressions ("*/15 * * * *").
func ParseSchedule(raw string) (Schedule, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Schedule{}, fmt.Errorf("empty schedule")
	}

	phrase := strings.TrimSpace(strings.TrimPrefix(s, "every "))
	if d, ok := parseInterval(phrase); ok {
		if d <= 0 {
			return Schedule{}, fmt.Errorf("schedule %q: interval must be positive", raw)
		}
		return Schedule{Every: d}, nil
	}

	expr := strings.TrimSpace(raw)
	if _, err := cron.ParseStandard(expr); err != nil {
		return Schedule{}, fmt.Errorf("schedule %q: not an interval or cron expression: %w", raw, err)
	}
	return Schedule{Cron: expr}, nil
}

func parseInterval(s string) (time.Duration, bool) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}

	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		// "every hour"
		if u, ok := units[fields[0]]; ok {
			return u, true
		}
	case 2:
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, false
		}
		if u, ok := units[fields[1]]; ok {
			return time.Duration(n) * u, true
		}
	}
	return 0, false
}
