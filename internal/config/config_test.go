package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smc-analyst/internal/models"
)

func validConfig() *Config {
	return &Config{
		Risk: RiskConfig{
			MaxTradesPerDay:     3,
			ConsecutiveLossStop: 2,
			MaxDailyDrawdownPct: 3.0,
			RiskPerTradePct:     1.0,
			MinRiskReward:       2.0,
			MaxSpread:           3.0,
			MinProbability:      55.0,
		},
		Sessions: SessionConfig{
			LondonStart:  "07:00",
			LondonEnd:    "11:00",
			NewYorkStart: "12:30",
			NewYorkEnd:   "16:30",
		},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero trades", func(c *Config) { c.Risk.MaxTradesPerDay = 0 }, "max_trades_per_day"},
		{"zero loss stop", func(c *Config) { c.Risk.ConsecutiveLossStop = 0 }, "consecutive_loss_stop"},
		{"negative drawdown", func(c *Config) { c.Risk.MaxDailyDrawdownPct = -1 }, "max_daily_drawdown_pct"},
		{"zero risk per trade", func(c *Config) { c.Risk.RiskPerTradePct = 0 }, "risk_per_trade_pct"},
		{"zero rr", func(c *Config) { c.Risk.MinRiskReward = 0 }, "min_risk_reward"},
		{"zero spread", func(c *Config) { c.Risk.MaxSpread = 0 }, "max_spread"},
		{"probability over 100", func(c *Config) { c.Risk.MinProbability = 120 }, "min_probability"},
		{"bad session format", func(c *Config) { c.Sessions.LondonStart = "7:00" }, "HH:MM"},
		{"missing session", func(c *Config) { c.Sessions.NewYorkEnd = "" }, "HH:MM"},
		{
			"empty analysis zones",
			func(c *Config) { c.Analysis = map[string]AnalysisConfig{"forex": {}} },
			"zone list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestAnalysisFor(t *testing.T) {
	cfg := validConfig()
	cfg.Analysis = map[string]AnalysisConfig{
		"crypto": {
			ValidShortZones: []string{models.ZonePremium},
			ValidLongZones:  []string{models.ZoneDiscount, models.ZoneEquilibrium},
		},
	}

	// Explicit section with zero knobs gets the knob defaults filled in.
	got := cfg.AnalysisFor(models.AssetCrypto)
	if len(got.ValidLongZones) != 2 {
		t.Errorf("zone lists should pass through, got %+v", got)
	}
	if got.ExhaustionWickRatio != 1.0 || got.SwingLookback != 5 {
		t.Errorf("zero knobs should default, got %+v", got)
	}

	// Unknown class falls back entirely.
	fallback := cfg.AnalysisFor(models.AssetIndex)
	if len(fallback.ValidShortZones) != 1 || fallback.ValidShortZones[0] != models.ZonePremium {
		t.Errorf("fallback short zones wrong: %+v", fallback)
	}
	if fallback.ExhaustionWickRatio != 1.0 || fallback.SwingLookback != 5 {
		t.Errorf("fallback knobs wrong: %+v", fallback)
	}
}

func TestEnabledInstruments(t *testing.T) {
	cfg := validConfig()
	cfg.Instruments = []InstrumentConfig{
		{Name: "EURUSD", YahooSymbol: "EURUSD=X", AssetClass: "forex", Enabled: true, Spread: 0.0002},
		{Name: "BTCUSD", YahooSymbol: "BTC-USD", AssetClass: "crypto", Enabled: false},
		{Name: "XAUUSD", YahooSymbol: "GC=F", AssetClass: "metal", Enabled: true, Spread: 0.5},
	}

	enabled := cfg.EnabledInstruments()
	if len(enabled) != 2 {
		t.Fatalf("enabled count = %d, want 2", len(enabled))
	}
	if enabled[0].Name != "EURUSD" || enabled[1].Name != "XAUUSD" {
		t.Errorf("wrong instruments kept: %+v", enabled)
	}
	if enabled[1].AssetClass != models.AssetMetal {
		t.Errorf("asset class not mapped: %s", enabled[1].AssetClass)
	}
}

func TestLoadCreatesTemplates(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	if err == nil {
		t.Fatal("first load into an empty directory should report template creation")
	}
	if !strings.Contains(err.Error(), "template created") {
		t.Errorf("error should mention the template, got %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "config.toml")); statErr != nil {
		t.Errorf("config template missing: %v", statErr)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	configTOML := `
[data]
interval = "4h"

[risk]
max_trades_per_day = 5

[sessions]
london_start = "08:00"

[analysis.forex]
valid_short_zones = ["Premium"]
valid_long_zones = ["Discount"]
`
	instrumentsTOML := `
[[instruments]]
name = "EURUSD"
yahoo_symbol = "EURUSD=X"
asset_class = "forex"
enabled = true
spread = 0.0002
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(configTOML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "instruments.toml"), []byte(instrumentsTOML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Data.Interval != "4h" {
		t.Errorf("interval = %s, want the file value 4h", cfg.Data.Interval)
	}
	if cfg.Data.Period != "3mo" {
		t.Errorf("period = %s, want the default 3mo", cfg.Data.Period)
	}
	if cfg.Risk.MaxTradesPerDay != 5 {
		t.Errorf("max trades = %d, want 5", cfg.Risk.MaxTradesPerDay)
	}
	if cfg.Risk.MinProbability != 55.0 {
		t.Errorf("min probability = %.0f, want the default 55", cfg.Risk.MinProbability)
	}
	if cfg.Sessions.LondonStart != "08:00" {
		t.Errorf("london start = %s, want 08:00", cfg.Sessions.LondonStart)
	}
	if len(cfg.Instruments) != 1 || cfg.Instruments[0].Name != "EURUSD" {
		t.Errorf("instruments not loaded: %+v", cfg.Instruments)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SMC_MAX_TRADES_PER_DAY", "7")
	t.Setenv("SMC_DB_PATH", "/tmp/override.db")

	cfg := validConfig()
	applyEnvOverrides(cfg)

	if cfg.Risk.MaxTradesPerDay != 7 {
		t.Errorf("max trades = %d, want the env override 7", cfg.Risk.MaxTradesPerDay)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("db path = %s, want the env override", cfg.Database.Path)
	}
}
