// Package config provides configuration management for the trading application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading  TradingConfig  `mapstructure:"trading"`
	Account  AccountConfig  `mapstructure:"account"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	UI       UIConfig       `mapstructure:"ui"`
}

// TradingConfig holds trading-related configuration.
type TradingConfig struct {
	Mode string `mapstructure:"mode"` // "live", "paper"
}

// AccountConfig holds the portfolio state the risk gate validates against.
// In paper mode these stand in for broker account data.
type AccountConfig struct {
	Equity      float64 `mapstructure:"equity"`
	BuyingPower float64 `mapstructure:"buying_power"`
}

// RiskConfig holds risk-gate configuration. Premium thresholds are in
// per-share dollars; the gate compares against premium x 100 per contract.
type RiskConfig struct {
	MaxPortfolioRiskPct   float64 `mapstructure:"max_portfolio_risk_pct"`
	MinPremiumPerContract float64 `mapstructure:"min_premium_per_contract"`
	MinIVRank             float64 `mapstructure:"min_iv_rank"`
	MaxPositionSize       int     `mapstructure:"max_position_size"`
	MinDTE                int     `mapstructure:"min_dte"`
	MaxDTE                int     `mapstructure:"max_dte"`
}

// StrategyConfig holds strike-selection configuration.
type StrategyConfig struct {
	CoveredCallDelta    float64 `mapstructure:"covered_call_delta"`
	CashSecuredPutDelta float64 `mapstructure:"cash_secured_put_delta"`
	CondorShortDelta    float64 `mapstructure:"condor_short_delta"`
	CondorWingDelta     float64 `mapstructure:"condor_wing_delta"`
	CreditSpreadDelta   float64 `mapstructure:"credit_spread_delta"`
	SpreadWidth         float64 `mapstructure:"spread_width"`
	StrikeTolerance     float64 `mapstructure:"strike_tolerance"`
	MinVolume           int64   `mapstructure:"min_volume"`
	MinOpenInterest     int64   `mapstructure:"min_open_interest"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-trader"
	}
	return filepath.Join(home, ".config", "options-trader")
}

// CacheDir returns the directory for durable per-symbol metric records.
func CacheDir(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "cache")
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		Trading: TradingConfig{Mode: "paper"},
		Account: AccountConfig{
			Equity:      100000,
			BuyingPower: 100000,
		},
		Risk: RiskConfig{
			MaxPortfolioRiskPct:   0.02,
			MinPremiumPerContract: 0.30,
			MinIVRank:             50,
			MaxPositionSize:       5,
			MinDTE:                30,
			MaxDTE:                60,
		},
		Strategy: StrategyConfig{
			CoveredCallDelta:    0.30,
			CashSecuredPutDelta: 0.30,
			CondorShortDelta:    0.30,
			CondorWingDelta:     0.16,
			CreditSpreadDelta:   0.30,
			SpreadWidth:         5.0,
			StrikeTolerance:     0.5,
			MinVolume:           10,
			MinOpenInterest:     50,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "02-Jan-2006",
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config file is not an error: a template is written and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("writing config template: %w", err)
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies the recognized process-environment overrides.
func applyEnvOverrides(cfg *Config) {
	envFloat("MAX_PORTFOLIO_RISK_PCT", &cfg.Risk.MaxPortfolioRiskPct)
	envFloat("MIN_PREMIUM_PER_CONTRACT", &cfg.Risk.MinPremiumPerContract)
	envFloat("MIN_IV_RANK", &cfg.Risk.MinIVRank)
	envInt("MAX_POSITION_SIZE", &cfg.Risk.MaxPositionSize)
	envInt("MIN_DTE", &cfg.Risk.MinDTE)
	envInt("MAX_DTE", &cfg.Risk.MaxDTE)
	envFloat("COVERED_CALL_DELTA", &cfg.Strategy.CoveredCallDelta)
	envFloat("CASH_SECURED_PUT_DELTA", &cfg.Strategy.CashSecuredPutDelta)
	envFloat("CONDOR_SHORT_DELTA", &cfg.Strategy.CondorShortDelta)
	envFloat("CONDOR_WING_DELTA", &cfg.Strategy.CondorWingDelta)
	envFloat("CREDIT_SPREAD_DELTA", &cfg.Strategy.CreditSpreadDelta)
	envFloat("SPREAD_WIDTH", &cfg.Strategy.SpreadWidth)

	if v := os.Getenv("TRADING_MODE"); v != "" {
		cfg.Trading.Mode = v
	}
}

func envFloat(key string, target *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}

func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Trading.Mode != "" && c.Trading.Mode != "live" && c.Trading.Mode != "paper" {
		return fmt.Errorf("invalid trading mode: %s (must be 'live' or 'paper')", c.Trading.Mode)
	}
	if c.Risk.MaxPortfolioRiskPct <= 0 || c.Risk.MaxPortfolioRiskPct > 1 {
		return fmt.Errorf("max_portfolio_risk_pct must be in (0, 1]")
	}
	if c.Risk.MinPremiumPerContract < 0 {
		return fmt.Errorf("min_premium_per_contract must be non-negative")
	}
	if c.Risk.MinIVRank < 0 || c.Risk.MinIVRank > 100 {
		return fmt.Errorf("min_iv_rank must be between 0 and 100")
	}
	if c.Risk.MaxPositionSize < 1 {
		return fmt.Errorf("max_position_size must be at least 1")
	}
	if c.Risk.MinDTE < 0 || c.Risk.MaxDTE < c.Risk.MinDTE {
		return fmt.Errorf("dte window invalid: min %d, max %d", c.Risk.MinDTE, c.Risk.MaxDTE)
	}
	if c.Strategy.SpreadWidth <= 0 {
		return fmt.Errorf("spread_width must be positive")
	}
	return nil
}

// IsPaperMode returns true if paper trading mode is enabled.
func (c *Config) IsPaperMode() bool {
	return c.Trading.Mode == "paper"
}

// TargetDelta returns the short-leg target delta for a strategy type.
func (c *StrategyConfig) TargetDelta(strategy string) float64 {
	switch strategy {
	case "covered_call":
		return c.CoveredCallDelta
	case "cash_secured_put":
		return c.CashSecuredPutDelta
	case "iron_condor":
		return c.CondorShortDelta
	case "credit_spread":
		return c.CreditSpreadDelta
	default:
		return 0.30
	}
}
