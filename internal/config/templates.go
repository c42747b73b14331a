package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# SMC Analyst Configuration

[data]
# Bar interval passed to the market-data provider
interval = "1h"
# Lookback range passed to the market-data provider
period = "3mo"

[risk]
# Maximum trades per day
max_trades_per_day = 3
# Stop trading after this many consecutive losses
consecutive_loss_stop = 2
# Maximum daily drawdown in percent
max_daily_drawdown_pct = 3.0
# Percent of the account risked per trade, counted toward the drawdown on a loss
risk_per_trade_pct = 1.0
# Minimum risk-reward ratio
min_risk_reward = 2.0
# Maximum acceptable spread in price units
max_spread = 3.0
# Minimum setup probability in percent
min_probability = 55.0

[sessions]
# UTC session windows, inclusive bounds
london_start = "07:00"
london_end = "11:00"
new_york_start = "12:30"
new_york_end = "16:30"

[news]
# Reject setups within 15 minutes of high-impact USD events
enabled = true

[scoring]
# Path to a trained model artifact; empty uses the rule-based scorer
model_path = ""

[database]
# SQLite database path; defaults under the config directory
path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log file path; empty logs to console only
file = ""
max_size_mb = 10
max_backups = 5
max_age_days = 30

[notifications]
enabled = false

[notifications.terminal]
enabled = true
# Ring the terminal bell for setup and error notifications
bell = true
color = true

[notifications.email]
enabled = false
smtp_host = ""
smtp_port = 465
username = ""
password = ""
from = ""
to = ""

[analysis.forex]
valid_short_zones = ["Premium"]
valid_long_zones = ["Discount"]
exhaustion_wick_ratio = 1.0
swing_lookback = 5

[analysis.crypto]
valid_short_zones = ["Premium", "Premium (Weak)"]
valid_long_zones = ["Discount", "Equilibrium"]
exhaustion_wick_ratio = 1.0
swing_lookback = 5

[analysis.metal]
valid_short_zones = ["Premium"]
valid_long_zones = ["Discount"]
exhaustion_wick_ratio = 1.0
swing_lookback = 5

[analysis.index]
valid_short_zones = ["Premium", "Premium (Weak)"]
valid_long_zones = ["Discount"]
exhaustion_wick_ratio = 1.0
swing_lookback = 5
`

const instrumentsTemplate = `# SMC Analyst Instruments

[[instruments]]
name = "EURUSD"
yahoo_symbol = "EURUSD=X"
asset_class = "forex"
enabled = true
spread = 0.0002

[[instruments]]
name = "GBPUSD"
yahoo_symbol = "GBPUSD=X"
asset_class = "forex"
enabled = true
spread = 0.0003

[[instruments]]
name = "XAUUSD"
yahoo_symbol = "GC=F"
asset_class = "metal"
enabled = true
spread = 0.5

[[instruments]]
name = "BTCUSD"
yahoo_symbol = "BTC-USD"
asset_class = "crypto"
enabled = false
spread = 15.0

[[instruments]]
name = "US500"
yahoo_symbol = "^GSPC"
asset_class = "index"
enabled = false
spread = 0.8
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, template created at %s - please review and re-run", path)
}

func createTemplateInstruments(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "instruments.toml")
	if err := os.WriteFile(path, []byte(instrumentsTemplate), 0644); err != nil {
		return fmt.Errorf("writing instruments template: %w", err)
	}

	return fmt.Errorf("instruments file not found, template created at %s - please review and re-run", path)
}

// WriteTemplates writes both template files unconditionally, used by
// the init command. Existing files are not overwritten.
func WriteTemplates(configDir string) error {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	for name, content := range map[string]string{
		"config.toml":      configTemplate,
		"instruments.toml": instrumentsTemplate,
	} {
		path := filepath.Join(configDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
