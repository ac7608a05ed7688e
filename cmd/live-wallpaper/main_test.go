package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"LIVE_WALLPAPER_CONFIG", "SATELLITE", "SCALE", "OUTPUT_PATH", "SCHEDULE", "PORT", "FETCH_MODE"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_FlagBeatsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SATELLITE", "goes-16")
	t.Setenv("SCALE", "2")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().AddFlagSet(rootCmd.PersistentFlags())
	if err := cmd.ParseFlags([]string{"--satellite", "himawari", "--fetch-mode", "sequential"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(cmd)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Satellite != "himawari" {
		t.Errorf("Satellite = %q, want himawari from flag", cfg.Satellite)
	}
	if cfg.Scale != 2 {
		t.Errorf("Scale = %d, want 2 from env", cfg.Scale)
	}
	if cfg.FetchMode != "sequential" {
		t.Errorf("FetchMode = %q, want sequential", cfg.FetchMode)
	}
}

func TestLoadConfig_RejectsInvalidFlag(t *testing.T) {
	clearEnv(t)

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().AddFlagSet(rootCmd.PersistentFlags())
	if err := cmd.ParseFlags([]string{"--missing-tiles", "skip"}); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(cmd); err == nil {
		t.Fatal("LoadConfig accepted --missing-tiles=skip")
	}
}

func TestPrintDates_MarksLatest(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	dates := []time.Time{
		time.Date(2023, time.June, 1, 11, 50, 0, 0, time.UTC),
		time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
	printDates(cmd, "meteosat-11", dates, 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "20230601120000") || !strings.Contains(lines[2], "latest") {
		t.Errorf("last line = %q, want the latest capture marked", lines[2])
	}
	if strings.Contains(lines[1], "latest") {
		t.Errorf("older capture marked latest: %q", lines[1])
	}
}

func TestPrintDates_Limit(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	var dates []time.Time
	for i := 0; i < 10; i++ {
		dates = append(dates, time.Date(2023, time.June, 1, i, 0, 0, 0, time.UTC))
	}
	printDates(cmd, "meteosat-11", dates, 3)

	if n := strings.Count(buf.String(), "\n"); n != 4 {
		t.Errorf("printed %d lines, want header + 3", n)
	}
}
