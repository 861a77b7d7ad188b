package config

import (
	"os"
	"testing"
	"time"
)

// writeTempConfig creates a minimal configuration file for LoadConfig and
// returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `hyperflow:
  name: "TestApp"
  version: "0.1"
reader:
  timeout: 3s
  position_workers: 4
snapshot:
  top_traders: 100
  position_accounts: 25
  risk_threshold_pct: 2.5
writer:
  output_path: "out/snapshot.json"
`)
	defer os.Remove(path)

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Hyperflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Hyperflow.Name)
	}
	if cfg.Reader.Timeout != 3*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.Reader.Timeout)
	}
	if cfg.Snapshot.TopTraders != 100 {
		t.Errorf("unexpected top traders: %d", cfg.Snapshot.TopTraders)
	}
	// values absent from the file keep their defaults
	if cfg.Snapshot.FundingPeriodsPerYear != 8760 {
		t.Errorf("unexpected funding periods: %d", cfg.Snapshot.FundingPeriodsPerYear)
	}
	if cfg.Source.Hyperliquid.InfoURL == "" {
		t.Error("expected default info url")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("does/not/exist.yml", false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Snapshot.TopTraders != 200 {
		t.Errorf("unexpected top traders: %d", cfg.Snapshot.TopTraders)
	}
	if cfg.Writer.OutputPath == "" {
		t.Error("expected default output path")
	}
}

func TestLoadConfigMissingFileRequired(t *testing.T) {
	if _, err := LoadConfig("does/not/exist.yml", true); err == nil {
		t.Fatal("expected error for missing required config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HYPERFLOW_TOP_TRADERS", "50")
	t.Setenv("HYPERFLOW_POSITION_ACCOUNTS", "10")
	t.Setenv("HYPERFLOW_RISK_THRESHOLD_PCT", "3.5")
	t.Setenv("HYPERFLOW_OUTPUT_PATH", "/tmp/override.json")

	cfg, err := LoadConfig("does/not/exist.yml", false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Snapshot.TopTraders != 50 {
		t.Errorf("env override not applied: %d", cfg.Snapshot.TopTraders)
	}
	if cfg.Snapshot.PositionAccounts != 10 {
		t.Errorf("env override not applied: %d", cfg.Snapshot.PositionAccounts)
	}
	if cfg.Snapshot.RiskThresholdPct != 3.5 {
		t.Errorf("env override not applied: %f", cfg.Snapshot.RiskThresholdPct)
	}
	if cfg.Writer.OutputPath != "/tmp/override.json" {
		t.Errorf("env override not applied: %s", cfg.Writer.OutputPath)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero top traders", func(c *Config) { c.Snapshot.TopTraders = 0 }},
		{"accounts exceed traders", func(c *Config) { c.Snapshot.PositionAccounts = c.Snapshot.TopTraders + 1 }},
		{"bad pnl window", func(c *Config) { c.Snapshot.PnlWindow = "hour" }},
		{"empty output path", func(c *Config) { c.Writer.OutputPath = "" }},
		{"zero risk threshold", func(c *Config) { c.Snapshot.RiskThresholdPct = 0 }},
		{"s3 enabled without bucket", func(c *Config) { c.Storage.S3.Enabled = true; c.Storage.S3.Region = "us-east-1" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := validateConfig(cfg); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestAppEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "")
	if env := AppEnvironment(); env != EnvironmentDevelopment {
		t.Errorf("unexpected default environment: %s", env)
	}

	t.Setenv("APP_ENV", "prod")
	if env := AppEnvironment(); env != EnvironmentProduction {
		t.Errorf("alias not resolved: %s", env)
	}

	if !IsProductionLike(EnvironmentStaging) {
		t.Error("staging should be production-like")
	}
	if IsProductionLike(EnvironmentDevelopment) {
		t.Error("development should not be production-like")
	}
}
