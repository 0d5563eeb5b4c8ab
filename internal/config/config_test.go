package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.DataDir == "" {
		t.Fatal("default data dir empty")
	}
	if cfg.DaysSoon != 1 {
		t.Fatalf("DaysSoon = %d", cfg.DaysSoon)
	}
	if cfg.PriorityHigh != 3 || cfg.PriorityMedium != 6 || cfg.PriorityNormal != 9 {
		t.Fatalf("priority tiers: %d/%d/%d", cfg.PriorityHigh, cfg.PriorityMedium, cfg.PriorityNormal)
	}
	if cfg.RecurrenceLimit != 100 {
		t.Fatalf("RecurrenceLimit = %d", cfg.RecurrenceLimit)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DaysSoon != 1 || cfg.DefaultDuration != 30 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadReadsFileAndClamps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "data_dir: /tmp/tasks\ndays_soon: 0\npriority_high: 2\nuser_email: me@example.net\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/tmp/tasks" {
		t.Fatalf("DataDir = %q", cfg.DataDir)
	}
	if cfg.DaysSoon != 1 {
		t.Fatalf("DaysSoon = %d, want clamp to 1", cfg.DaysSoon)
	}
	if cfg.PriorityHigh != 2 {
		t.Fatalf("PriorityHigh = %d", cfg.PriorityHigh)
	}
	if cfg.UserEmail != "me@example.net" {
		t.Fatalf("UserEmail = %q", cfg.UserEmail)
	}
	// Keys not in the file keep their defaults.
	if cfg.PriorityMedium != 6 || cfg.RecurrenceLimit != 100 {
		t.Fatalf("partial file clobbered defaults: %+v", cfg)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data_dir: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config should error")
	}
}
