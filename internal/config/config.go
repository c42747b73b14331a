// Package config provides configuration management for the analyst.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	"smc-analyst/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Data          DataConfig                `mapstructure:"data"`
	Risk          RiskConfig                `mapstructure:"risk"`
	Sessions      SessionConfig             `mapstructure:"sessions"`
	News          NewsConfig                `mapstructure:"news"`
	Scoring       ScoringConfig             `mapstructure:"scoring"`
	Database      DatabaseConfig            `mapstructure:"database"`
	Logging       LoggingConfig             `mapstructure:"logging"`
	Notifications NotificationConfig        `mapstructure:"notifications"`
	Analysis      map[string]AnalysisConfig `mapstructure:"analysis"`
	Instruments   []InstrumentConfig        `mapstructure:"-"` // Loaded separately
}

// DataConfig holds market-data fetch configuration.
type DataConfig struct {
	Interval string `mapstructure:"interval"`
	Period   string `mapstructure:"period"`
}

// RiskConfig holds the risk validator thresholds.
type RiskConfig struct {
	MaxTradesPerDay     int     `mapstructure:"max_trades_per_day"`
	ConsecutiveLossStop int     `mapstructure:"consecutive_loss_stop"`
	MaxDailyDrawdownPct float64 `mapstructure:"max_daily_drawdown_pct"`
	RiskPerTradePct     float64 `mapstructure:"risk_per_trade_pct"`
	MinRiskReward       float64 `mapstructure:"min_risk_reward"`
	MaxSpread           float64 `mapstructure:"max_spread"`
	MinProbability      float64 `mapstructure:"min_probability"`
}

// SessionConfig holds the UTC session windows as "HH:MM" strings.
type SessionConfig struct {
	LondonStart  string `mapstructure:"london_start"`
	LondonEnd    string `mapstructure:"london_end"`
	NewYorkStart string `mapstructure:"new_york_start"`
	NewYorkEnd   string `mapstructure:"new_york_end"`
}

// NewsConfig holds the news gate configuration.
type NewsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ScoringConfig holds the probability scorer configuration.
type ScoringConfig struct {
	ModelPath string `mapstructure:"model_path"`
}

// DatabaseConfig holds the persistence configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Email    EmailConfig    `mapstructure:"email"`
	Terminal TerminalConfig `mapstructure:"terminal"`
}

// TerminalConfig holds terminal notification configuration.
type TerminalConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Bell    bool `mapstructure:"bell"`
	Color   bool `mapstructure:"color"`
}

// EmailConfig holds email notification configuration.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// AnalysisConfig holds per-asset-class analysis settings.
type AnalysisConfig struct {
	ValidShortZones     []string `mapstructure:"valid_short_zones"`
	ValidLongZones      []string `mapstructure:"valid_long_zones"`
	ExhaustionWickRatio float64  `mapstructure:"exhaustion_wick_ratio"`
	SwingLookback       int      `mapstructure:"swing_lookback"`
}

// InstrumentConfig holds one tradable instrument entry.
type InstrumentConfig struct {
	Name        string  `mapstructure:"name"`
	YahooSymbol string  `mapstructure:"yahoo_symbol"`
	AssetClass  string  `mapstructure:"asset_class"`
	Enabled     bool    `mapstructure:"enabled"`
	Spread      float64 `mapstructure:"spread"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/smc-analyst"
	}
	return filepath.Join(home, ".config", "smc-analyst")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadInstruments(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading instruments.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("data.interval", "1h")
	v.SetDefault("data.period", "3mo")
	v.SetDefault("risk.max_trades_per_day", 3)
	v.SetDefault("risk.consecutive_loss_stop", 2)
	v.SetDefault("risk.max_daily_drawdown_pct", 3.0)
	v.SetDefault("risk.risk_per_trade_pct", 1.0)
	v.SetDefault("risk.min_risk_reward", 2.0)
	v.SetDefault("risk.max_spread", 3.0)
	v.SetDefault("risk.min_probability", 55.0)
	v.SetDefault("sessions.london_start", "07:00")
	v.SetDefault("sessions.london_end", "11:00")
	v.SetDefault("sessions.new_york_start", "12:30")
	v.SetDefault("sessions.new_york_end", "16:30")
	v.SetDefault("news.enabled", true)
	v.SetDefault("notifications.terminal.enabled", true)
	v.SetDefault("notifications.terminal.bell", true)
	v.SetDefault("notifications.terminal.color", true)
	v.SetDefault("database.path", filepath.Join(configDir, "analyst.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir)
		}
		return err
	}

	return v.Unmarshal(cfg)
}

func loadInstruments(configDir string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName("instruments")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateInstruments(configDir)
		}
		return err
	}

	var wrapper struct {
		Instruments []InstrumentConfig `mapstructure:"instruments"`
	}
	if err := v.Unmarshal(&wrapper); err != nil {
		return err
	}
	cfg.Instruments = wrapper.Instruments
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SMC_SMTP_PASSWORD"); v != "" {
		cfg.Notifications.Email.Password = v
	}
	if v := os.Getenv("SMC_SMTP_USERNAME"); v != "" {
		cfg.Notifications.Email.Username = v
	}
	if v := os.Getenv("SMC_MODEL_PATH"); v != "" {
		cfg.Scoring.ModelPath = v
	}
	if v := os.Getenv("SMC_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SMC_MAX_TRADES_PER_DAY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Risk.MaxTradesPerDay = n
		}
	}
}

// Validate validates the configuration. Missing thresholds are fatal at
// startup rather than recoverable mid-pipeline.
func (c *Config) Validate() error {
	if c.Risk.MaxTradesPerDay <= 0 {
		return fmt.Errorf("risk.max_trades_per_day must be positive")
	}
	if c.Risk.ConsecutiveLossStop <= 0 {
		return fmt.Errorf("risk.consecutive_loss_stop must be positive")
	}
	if c.Risk.MaxDailyDrawdownPct <= 0 {
		return fmt.Errorf("risk.max_daily_drawdown_pct must be positive")
	}
	if c.Risk.RiskPerTradePct <= 0 {
		return fmt.Errorf("risk.risk_per_trade_pct must be positive")
	}
	if c.Risk.MinRiskReward <= 0 {
		return fmt.Errorf("risk.min_risk_reward must be positive")
	}
	if c.Risk.MaxSpread <= 0 {
		return fmt.Errorf("risk.max_spread must be positive")
	}
	if c.Risk.MinProbability <= 0 || c.Risk.MinProbability > 100 {
		return fmt.Errorf("risk.min_probability must be in (0, 100]")
	}

	for _, field := range []string{
		c.Sessions.LondonStart, c.Sessions.LondonEnd,
		c.Sessions.NewYorkStart, c.Sessions.NewYorkEnd,
	} {
		if len(field) != 5 || field[2] != ':' {
			return fmt.Errorf("session windows must use HH:MM format, got %q", field)
		}
	}

	for class, settings := range c.Analysis {
		if len(settings.ValidShortZones) == 0 && len(settings.ValidLongZones) == 0 {
			return fmt.Errorf("analysis.%s: at least one zone list must be set", class)
		}
	}

	return nil
}

// AnalysisFor resolves the analysis settings for an asset class,
// falling back to conservative forex-style defaults when the class has
// no explicit section.
func (c *Config) AnalysisFor(class models.AssetClass) AnalysisConfig {
	if settings, ok := c.Analysis[string(class)]; ok {
		if settings.ExhaustionWickRatio <= 0 {
			settings.ExhaustionWickRatio = 1.0
		}
		if settings.SwingLookback <= 0 {
			settings.SwingLookback = 5
		}
		return settings
	}
	return AnalysisConfig{
		ValidShortZones:     []string{models.ZonePremium},
		ValidLongZones:      []string{models.ZoneDiscount},
		ExhaustionWickRatio: 1.0,
		SwingLookback:       5,
	}
}

// EnabledInstruments returns the active instrument set as domain models.
func (c *Config) EnabledInstruments() []models.Instrument {
	var out []models.Instrument
	for _, ins := range c.Instruments {
		if !ins.Enabled {
			continue
		}
		out = append(out, models.Instrument{
			Name:        ins.Name,
			YahooSymbol: ins.YahooSymbol,
			AssetClass:  models.AssetClass(ins.AssetClass),
			Enabled:     true,
			Spread:      ins.Spread,
		})
	}
	return out
}
