package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Options Trader Configuration

[trading]
# Trading mode: "live" or "paper"
mode = "paper"

[account]
# Portfolio equity used by the risk gate (paper mode)
equity = 100000.0
# Available buying power (paper mode)
buying_power = 100000.0

[risk]
# Maximum risk per trade as a fraction of equity
max_portfolio_risk_pct = 0.02
# Minimum premium per contract, in per-share dollars
min_premium_per_contract = 0.30
# Minimum IV rank required to sell premium
min_iv_rank = 50.0
# Maximum short contracts per position
max_position_size = 5
# Days-to-expiration window
min_dte = 30
max_dte = 60

[strategy]
# Target |delta| for short legs by strategy
covered_call_delta = 0.30
cash_secured_put_delta = 0.30
condor_short_delta = 0.30
condor_wing_delta = 0.16
credit_spread_delta = 0.30
# Spread width in strike dollars, and listed-strike match tolerance
spread_width = 5.0
strike_tolerance = 0.5
# Liquidity floor for candidate contracts
min_volume = 10
min_open_interest = 50

[ui]
color_enabled = true
date_format = "02-Jan-2006"
`

// createTemplateConfig writes a commented config template so the user
// has something to edit on first run.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
