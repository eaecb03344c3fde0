package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
strategy:
  our_party: "Labour"
  total_seats: 45
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Strategy.OurParty != "Labour" {
		t.Errorf("our_party = %q, want Labour", cfg.Strategy.OurParty)
	}
	if cfg.Strategy.TargetType != "local" {
		t.Errorf("target_type default = %q, want local", cfg.Strategy.TargetType)
	}
	if cfg.Strategy.BudgetHours != 1000 {
		t.Errorf("budget_hours default = %f, want 1000", cfg.Strategy.BudgetHours)
	}
	if cfg.Strategy.SessionCap != 6 {
		t.Errorf("session_cap default = %d, want 6", cfg.Strategy.SessionCap)
	}
	if cfg.Assumptions.ReformParty != "Reform UK" {
		t.Errorf("reform_party default = %q, want Reform UK", cfg.Assumptions.ReformParty)
	}
	if !cfg.Assumptions.ReformStandsInAllWards {
		t.Error("reform_stands_in_all_wards should default on")
	}
	if cfg.Briefing.Enabled {
		t.Error("briefing should default off")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level default = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
strategy:
  our_party: "Green"
  total_seats: 60
  budget_hours: 250
  manual_override:
    Riverside: "Independent"
assumptions:
  national_to_local_dampening: 0.4
  reform_stands_in_all_wards: false
briefing:
  enabled: true
  bot_token: "token"
  chat_id: "42"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strategy.BudgetHours != 250 {
		t.Errorf("budget_hours = %f, want 250", cfg.Strategy.BudgetHours)
	}
	if cfg.Strategy.ManualOverride["Riverside"] != "Independent" {
		t.Errorf("manual_override = %v", cfg.Strategy.ManualOverride)
	}
	if cfg.Assumptions.NationalToLocalDampening != 0.4 {
		t.Errorf("dampening = %f, want 0.4", cfg.Assumptions.NationalToLocalDampening)
	}
	if cfg.Assumptions.ReformStandsInAllWards {
		t.Error("reform_stands_in_all_wards override ignored")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Strategy.OurParty = "Labour"
		cfg.Strategy.BudgetHours = 1000
		cfg.Strategy.SessionCap = 6
		cfg.Strategy.TotalSeats = 45
		cfg.Dataset.Path = "./data/council.db"
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing party", func(c *Config) { c.Strategy.OurParty = "" }},
		{"zero budget", func(c *Config) { c.Strategy.BudgetHours = 0 }},
		{"zero session cap", func(c *Config) { c.Strategy.SessionCap = 0 }},
		{"zero seats", func(c *Config) { c.Strategy.TotalSeats = 0 }},
		{"missing dataset", func(c *Config) { c.Dataset.Path = "" }},
		{"briefing without token", func(c *Config) { c.Briefing.Enabled = true; c.Briefing.ChatID = "42" }},
		{"briefing without chat", func(c *Config) { c.Briefing.Enabled = true; c.Briefing.BotToken = "t" }},
	}
	for _, c := range cases {
		cfg := base()
		c.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestModelAssumptionsClamps(t *testing.T) {
	cfg := &Config{}
	cfg.Assumptions.NationalToLocalDampening = 5.0 // above the permitted range
	cfg.Assumptions.ReformProxyPrimary = -1.0
	cfg.Assumptions.SwingMultiplier = 1.0

	a := cfg.ModelAssumptions()
	if a.NationalToLocalDampening > 1.0 {
		t.Errorf("dampening = %f, want clamped to at most 1.0", a.NationalToLocalDampening)
	}
	if a.EntrantProxyWeights.Primary < 0 {
		t.Errorf("proxy weight = %f, want clamped to at least 0", a.EntrantProxyWeights.Primary)
	}
}
