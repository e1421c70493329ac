package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("first-run load: %v", err)
	}
	if cfg.Listen == "" || cfg.UTCOffset == "" {
		t.Errorf("default config missing fields: %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perms = %o, want 600", perm)
	}

	// A second load must read the file back, not recreate it.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if again.Title != cfg.Title {
		t.Errorf("reloaded title = %q, want %q", again.Title, cfg.Title)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()

	if cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.UTCOffset != "+05:30" {
		t.Errorf("UTCOffset = %q", cfg.UTCOffset)
	}
	if cfg.RefreshCron != "@hourly" {
		t.Errorf("RefreshCron = %q", cfg.RefreshCron)
	}
	if cfg.Agenda == nil {
		t.Error("Agenda should be normalized to an empty slice")
	}
}

func TestNormalizeInheritsEventTimezone(t *testing.T) {
	cfg := &Config{
		Timezone: "Asia/Kolkata",
		Agenda: []Event{
			{Slug: "a"},
			{Slug: "b", TimeZone: "Europe/Paris"},
		},
	}
	cfg.Normalize()

	if cfg.Agenda[0].TimeZone != "Asia/Kolkata" {
		t.Errorf("empty event timezone not inherited: %q", cfg.Agenda[0].TimeZone)
	}
	if cfg.Agenda[1].TimeZone != "Europe/Paris" {
		t.Errorf("explicit event timezone overwritten: %q", cfg.Agenda[1].TimeZone)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Title = "A Winter Wedding"
	cfg.Agenda = append(cfg.Agenda, Event{
		Slug:      "mehndi",
		Title:     "Mehndi Evening",
		Date:      "2024-12-23",
		StartTime: "04:00 PM",
		EndTime:   "08:00 PM",
	})

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Title != "A Winter Wedding" {
		t.Errorf("title = %q", loaded.Title)
	}
	ev, ok := loaded.EventBySlug("mehndi")
	if !ok {
		t.Fatal("mehndi event lost in round-trip")
	}
	if ev.StartTime != "04:00 PM" {
		t.Errorf("start_time = %q", ev.StartTime)
	}
}

func TestEventBySlug(t *testing.T) {
	cfg := DefaultConfig()
	if _, ok := cfg.EventBySlug("wedding"); !ok {
		t.Error("default wedding event not found")
	}
	if _, ok := cfg.EventBySlug("missing"); ok {
		t.Error("unexpected match for unknown slug")
	}
}
