package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("server address = %q", cfg.Server.Address)
	}
	if cfg.Analysis.DefaultDraws != 1000 || cfg.Analysis.MaxDraws != 100000 {
		t.Fatalf("draw bounds = %d/%d", cfg.Analysis.DefaultDraws, cfg.Analysis.MaxDraws)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("cache defaults = %v/%v", cfg.Cache.Enabled, cfg.Cache.TTL)
	}

	m := cfg.MissionProfile()
	if m.CyclesPerYear != 5256 || m.MissionHours != 43800 {
		t.Fatalf("mission defaults = %+v", m)
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  address: ":9090"
dataset:
  path: /data/components.csv
mission:
  missionHours: 87600
  overstressBaseline: 55
analysis:
  defaultDraws: 500
  maxDraws: 5000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("RELIA_SERVER_ADDRESS", ":7070")
	t.Setenv("RELIA_ANALYSIS_WORKERS", "4")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Address != ":7070" {
		t.Fatalf("env override lost: address = %q", cfg.Server.Address)
	}
	if cfg.Dataset.Path != "/data/components.csv" {
		t.Fatalf("dataset path = %q", cfg.Dataset.Path)
	}
	if cfg.Analysis.Workers != 4 {
		t.Fatalf("workers = %d", cfg.Analysis.Workers)
	}
	m := cfg.MissionProfile()
	if m.MissionHours != 87600 {
		t.Fatalf("mission hours = %g", m.MissionHours)
	}
	if m.OverstressBaseline != 55 {
		t.Fatalf("overstress baseline = %g, want 55", m.OverstressBaseline)
	}
	// Unset constants keep their defaults.
	if m.CyclesPerYear != 5256 {
		t.Fatalf("cycles per year = %g, want default 5256", m.CyclesPerYear)
	}
}

func TestLoadRejectsBadBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `analysis:
  defaultDraws: 1000
  maxDraws: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for maxDraws < defaultDraws")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
