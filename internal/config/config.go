package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/openelect/wardcast/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Strategy    StrategyConfig    `mapstructure:"strategy"`
	Assumptions AssumptionsConfig `mapstructure:"assumptions"`
	Dataset     DatasetConfig     `mapstructure:"dataset"`
	Briefing    BriefingConfig    `mapstructure:"briefing"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// StrategyConfig holds the campaign-planning knobs
type StrategyConfig struct {
	OurParty       string            `mapstructure:"our_party"`
	TargetType     string            `mapstructure:"target_type"` // election type to match for baselines
	CurrentYear    int               `mapstructure:"current_year"`
	BudgetHours    float64           `mapstructure:"budget_hours"`
	SessionCap     int               `mapstructure:"session_cap"` // max wards per canvass session
	BriefingTopK   int               `mapstructure:"briefing_top_k"`
	CurrentSeats   int               `mapstructure:"current_seats"`   // our party's seats before the election
	SeatsNotUp     int               `mapstructure:"seats_not_up"`    // our seats not contested this cycle
	TotalSeats     int               `mapstructure:"total_seats"`     // council size
	ManualOverride map[string]string `mapstructure:"manual_override"` // ward -> forced winner
}

// AssumptionsConfig holds the model tuning options; out-of-range values are
// clamped at point of use, not rejected here
type AssumptionsConfig struct {
	NationalToLocalDampening float64 `mapstructure:"national_to_local_dampening"`
	IncumbencyBonusPct       float64 `mapstructure:"incumbency_bonus_pct"`
	RetirementPenaltyPct     float64 `mapstructure:"retirement_penalty_pct"`
	ReformParty              string  `mapstructure:"reform_party"`
	ReformProxyPrimary       float64 `mapstructure:"reform_proxy_primary"`
	ReformProxySecondary     float64 `mapstructure:"reform_proxy_secondary"`
	ReformStandsInAllWards   bool    `mapstructure:"reform_stands_in_all_wards"`
	TurnoutAdjustment        float64 `mapstructure:"turnout_adjustment"`
	SwingMultiplier          float64 `mapstructure:"swing_multiplier"`
}

// DatasetConfig holds the path to the materialized input dataset
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// BriefingConfig holds the Telegram strategy-digest configuration
type BriefingConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("WARDCAST")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("strategy.target_type", "local")
	v.SetDefault("strategy.budget_hours", 1000.0)
	v.SetDefault("strategy.session_cap", 6)
	v.SetDefault("strategy.briefing_top_k", 10)

	defaults := models.DefaultAssumptions()
	v.SetDefault("assumptions.national_to_local_dampening", defaults.NationalToLocalDampening)
	v.SetDefault("assumptions.incumbency_bonus_pct", defaults.IncumbencyBonusPct)
	v.SetDefault("assumptions.retirement_penalty_pct", defaults.RetirementPenaltyPct)
	v.SetDefault("assumptions.reform_party", defaults.EntrantParty)
	v.SetDefault("assumptions.reform_proxy_primary", defaults.EntrantProxyWeights.Primary)
	v.SetDefault("assumptions.reform_proxy_secondary", defaults.EntrantProxyWeights.Secondary)
	v.SetDefault("assumptions.reform_stands_in_all_wards", defaults.EntrantStandsInAllWards)
	v.SetDefault("assumptions.turnout_adjustment", defaults.TurnoutAdjustment)
	v.SetDefault("assumptions.swing_multiplier", defaults.SwingMultiplier)

	v.SetDefault("dataset.path", "./data/council.db")

	v.SetDefault("briefing.enabled", false)
	v.SetDefault("briefing.max_retries", 3)
	v.SetDefault("briefing.retry_delay_base", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks configuration values that cannot be fixed by clamping
func (c *Config) Validate() error {
	if c.Strategy.OurParty == "" {
		return fmt.Errorf("strategy.our_party must be set")
	}
	if c.Strategy.BudgetHours <= 0 {
		return fmt.Errorf("strategy.budget_hours must be positive, got %.1f", c.Strategy.BudgetHours)
	}
	if c.Strategy.SessionCap <= 0 {
		return fmt.Errorf("strategy.session_cap must be positive, got %d", c.Strategy.SessionCap)
	}
	if c.Strategy.TotalSeats <= 0 {
		return fmt.Errorf("strategy.total_seats must be positive, got %d", c.Strategy.TotalSeats)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path must be set")
	}
	if c.Briefing.Enabled {
		if c.Briefing.BotToken == "" {
			return fmt.Errorf("briefing.bot_token must be set when briefing is enabled")
		}
		if c.Briefing.ChatID == "" {
			return fmt.Errorf("briefing.chat_id must be set when briefing is enabled")
		}
	}
	return nil
}

// ModelAssumptions converts the config section into the immutable Assumptions
// record threaded through every prediction call. Out-of-range options are
// clamped here, at the single point of conversion.
func (c *Config) ModelAssumptions() models.Assumptions {
	return models.Assumptions{
		NationalToLocalDampening: c.Assumptions.NationalToLocalDampening,
		IncumbencyBonusPct:       c.Assumptions.IncumbencyBonusPct,
		RetirementPenaltyPct:     c.Assumptions.RetirementPenaltyPct,
		EntrantParty:             c.Assumptions.ReformParty,
		EntrantProxyWeights: models.ProxyWeights{
			Primary:   c.Assumptions.ReformProxyPrimary,
			Secondary: c.Assumptions.ReformProxySecondary,
		},
		EntrantStandsInAllWards: c.Assumptions.ReformStandsInAllWards,
		TurnoutAdjustment:       c.Assumptions.TurnoutAdjustment,
		SwingMultiplier:         c.Assumptions.SwingMultiplier,
	}.Clamped()
}
