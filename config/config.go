// Package config loads and validates run configuration from YAML or
// JSON files, with FUTBT_* environment overrides layered on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"futbt/backtest"
	"futbt/market"
	"futbt/strategy"
)

// Config represents the complete backtest configuration.
type Config struct {
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Dataset  DatasetConfig  `json:"dataset" yaml:"dataset"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Strategy StrategyConfig `json:"strategy,omitempty" yaml:"strategy,omitempty"`

	Symbols        []string                  `json:"symbols" yaml:"symbols"`
	SymbolSettings map[string]SymbolSettings `json:"symbol_settings,omitempty" yaml:"symbol_settings,omitempty"`
}

// EngineConfig mirrors backtest.Engine's tunables.
type EngineConfig struct {
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
	Leverage       float64 `json:"leverage" yaml:"leverage"`
	RiskPerTrade   float64 `json:"risk_per_trade" yaml:"risk_per_trade"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
	MaxExposure    float64 `json:"max_exposure" yaml:"max_exposure"`
	Interval       string  `json:"interval" yaml:"interval"`
	WarmupBars     int     `json:"warmup_bars" yaml:"warmup_bars"`
	CooldownBars   int     `json:"cooldown_bars,omitempty" yaml:"cooldown_bars,omitempty"`
}

// DatasetConfig locates kline files on disk.
type DatasetConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// JournalConfig selects the persistence backend.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	CSVDir string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
}

// StrategyConfig carries optional parameter overrides; a nil section
// means the strategy's defaults.
type StrategyConfig struct {
	Conservative *strategy.ConservativeParams `json:"conservative,omitempty" yaml:"conservative,omitempty"`
	Balanced     *strategy.BalancedParams     `json:"balanced,omitempty" yaml:"balanced,omitempty"`
}

// SymbolSettings adjusts a single symbol's run.
type SymbolSettings struct {
	LongOnly      bool    `json:"long_only,omitempty" yaml:"long_only,omitempty"`
	TakeProfitPct float64 `json:"take_profit_pct,omitempty" yaml:"take_profit_pct,omitempty"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON, then validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on
// extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays FUTBT_* environment variables onto the config.
// Unset variables leave the loaded values alone.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("FUTBT_BALANCE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse FUTBT_BALANCE: %w", err)
		}
		c.Engine.InitialBalance = f
	}
	if v, ok := os.LookupEnv("FUTBT_LEVERAGE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse FUTBT_LEVERAGE: %w", err)
		}
		c.Engine.Leverage = f
	}
	if v, ok := os.LookupEnv("FUTBT_RISK"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse FUTBT_RISK: %w", err)
		}
		c.Engine.RiskPerTrade = f
	}
	if v, ok := os.LookupEnv("FUTBT_COMMISSION"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse FUTBT_COMMISSION: %w", err)
		}
		c.Engine.CommissionRate = f
	}
	if v, ok := os.LookupEnv("FUTBT_INTERVAL"); ok {
		c.Engine.Interval = v
	}
	if v, ok := os.LookupEnv("FUTBT_SYMBOLS"); ok {
		var symbols []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
		c.Symbols = symbols
	}
	if v, ok := os.LookupEnv("FUTBT_DATA_DIR"); ok {
		c.Dataset.Dir = v
	}
	if v, ok := os.LookupEnv("FUTBT_JOURNAL"); ok {
		c.Journal.Type = v
	}
	if v, ok := os.LookupEnv("FUTBT_DB_PATH"); ok {
		c.Journal.DBPath = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Engine.InitialBalance <= 0 {
		return fmt.Errorf("engine.initial_balance must be positive")
	}
	if c.Engine.Leverage <= 0 {
		return fmt.Errorf("engine.leverage must be positive")
	}
	if c.Engine.RiskPerTrade <= 0 || c.Engine.RiskPerTrade > 1 {
		return fmt.Errorf("engine.risk_per_trade must be between 0 and 1")
	}
	if c.Engine.CommissionRate < 0 {
		return fmt.Errorf("engine.commission_rate must not be negative")
	}
	if c.Engine.MaxExposure <= 0 {
		return fmt.Errorf("engine.max_exposure must be positive")
	}
	if _, err := market.Interval(c.Engine.Interval).Duration(); err != nil {
		return fmt.Errorf("engine.interval: %w", err)
	}
	if c.Engine.WarmupBars < 0 {
		return fmt.Errorf("engine.warmup_bars must not be negative")
	}
	if c.Engine.CooldownBars < 0 {
		return fmt.Errorf("engine.cooldown_bars must not be negative")
	}

	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols is required")
	}
	for _, s := range c.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("symbols must not contain empty entries")
		}
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.CSVDir == "" {
			return fmt.Errorf("journal.csv_dir required for csv type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}

	if p := c.Strategy.Conservative; p != nil {
		if p.TakeProfitPct <= 0 || p.StopATRMult <= 0 {
			return fmt.Errorf("strategy.conservative: take_profit_pct and stop_atr_mult must be positive")
		}
	}
	if p := c.Strategy.Balanced; p != nil {
		if p.TakeProfitPct <= 0 || p.StopATRMult <= 0 {
			return fmt.Errorf("strategy.balanced: take_profit_pct and stop_atr_mult must be positive")
		}
		if p.MinConfirms < 1 {
			return fmt.Errorf("strategy.balanced: min_confirms must be at least 1")
		}
	}
	for sym, s := range c.SymbolSettings {
		if s.TakeProfitPct < 0 {
			return fmt.Errorf("symbol_settings.%s: take_profit_pct must not be negative", sym)
		}
	}

	return nil
}

// NewEngine builds a backtest engine from the config. Per-symbol
// settings are not applied here; callers set LongOnly per run.
func (c *Config) NewEngine() *backtest.Engine {
	return &backtest.Engine{
		InitialBalance: c.Engine.InitialBalance,
		Leverage:       c.Engine.Leverage,
		RiskPerTrade:   c.Engine.RiskPerTrade,
		CommissionRate: c.Engine.CommissionRate,
		MaxExposure:    c.Engine.MaxExposure,
		Interval:       market.Interval(c.Engine.Interval),
		WarmupBars:     c.Engine.WarmupBars,
		CooldownBars:   c.Engine.CooldownBars,
	}
}

// NewStrategy builds the named strategy using any configured parameter
// overrides, then the symbol's take-profit override when set.
func (c *Config) NewStrategy(name, symbol string) (strategy.Strategy, error) {
	tp := c.SymbolSettings[symbol].TakeProfitPct

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "conservative":
		p := strategy.DefaultConservativeParams()
		if c.Strategy.Conservative != nil {
			p = *c.Strategy.Conservative
		}
		if tp > 0 {
			p.TakeProfitPct = tp
		}
		return strategy.NewConservative(p), nil
	case "balanced":
		p := strategy.DefaultBalancedParams()
		if c.Strategy.Balanced != nil {
			p = *c.Strategy.Balanced
		}
		if tp > 0 {
			p.TakeProfitPct = tp
		}
		return strategy.NewBalanced(p), nil
	}
	return strategy.ByName(name)
}

// LongOnly reports whether the symbol is restricted to long entries.
func (c *Config) LongOnly(symbol string) bool {
	return c.SymbolSettings[symbol].LongOnly
}

// Default returns a configuration with the standard futures defaults.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			InitialBalance: 10000,
			Leverage:       5,
			RiskPerTrade:   0.02,
			CommissionRate: 0.0004,
			MaxExposure:    0.3,
			Interval:       "15m",
			WarmupBars:     50,
		},
		Dataset: DatasetConfig{
			Dir: "./data",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./futbt.db",
		},
		Symbols: []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"},
	}
}
