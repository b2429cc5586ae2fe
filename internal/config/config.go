// Package config provides configuration management for the match-odds application.
package config

import (
	"time"

	"github.com/yourusername/match-odds/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Staking    StakingConfig    `mapstructure:"staking" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ModelConfig represents the goal model parameters
type ModelConfig struct {
	MaxGoals        int        `mapstructure:"max_goals" validate:"required,gte=1,lte=15"`
	LambdaFloor     float64    `mapstructure:"lambda_floor" validate:"gte=0"`
	FormWindow      int        `mapstructure:"form_window" validate:"gte=0"`
	FormWeight      float64    `mapstructure:"form_weight" validate:"gte=0,lte=1"`
	GoalLines       []float64  `mapstructure:"goal_lines" validate:"omitempty,lines"`
	CornerLines     []float64  `mapstructure:"corner_lines" validate:"omitempty,lines"`
	CardLines       []float64  `mapstructure:"card_lines" validate:"omitempty,lines"`
	TopScores       int        `mapstructure:"top_scores" validate:"gte=0"`
	CorrectScore    bool       `mapstructure:"correct_score_markets"`
	Fallback        RateConfig `mapstructure:"fallback"`
	FallbackCorners RateConfig `mapstructure:"fallback_corners"`
	FallbackCards   RateConfig `mapstructure:"fallback_cards"`
}

// RateConfig is a for/against average used when a team has no usable history
type RateConfig struct {
	For     float64 `mapstructure:"for" validate:"gte=0"`
	Against float64 `mapstructure:"against" validate:"gte=0"`
}

// StakingConfig represents bankroll and stake sizing configuration
type StakingConfig struct {
	Bankroll           float64 `mapstructure:"bankroll" validate:"gte=0"`
	KellySafetyFactor  float64 `mapstructure:"kelly_safety_factor" validate:"required,gt=0,lte=1"`
	MinPickProbability float64 `mapstructure:"min_pick_probability" validate:"gte=0,lte=1"`
	MaxPickProbability float64 `mapstructure:"max_pick_probability" validate:"gte=0,lte=1"`
}

// DataSourceConfig represents match history supplier configuration
type DataSourceConfig struct {
	Type            string          `mapstructure:"type" validate:"required,oneof=api_sports csv"`
	CacheTTLSeconds int             `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize    int             `mapstructure:"cache_max_size" validate:"gte=0"`
	APISports       APISportsConfig `mapstructure:"api_sports"`
	CSV             CSVConfig       `mapstructure:"csv"`
}

// APISportsConfig represents the API-Sports football endpoint configuration
type APISportsConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key"`
	LeagueID       int    `mapstructure:"league_id" validate:"gte=0"`
	Season         int    `mapstructure:"season" validate:"gte=0"`
	LastMatches    int    `mapstructure:"last_matches" validate:"gte=0,lte=100"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
	RateLimit      int    `mapstructure:"rate_limit" validate:"gte=0"`
	MaxRetries     int    `mapstructure:"max_retries" validate:"gte=0"`
}

// CSVConfig represents the local CSV match file configuration
type CSVConfig struct {
	MatchesPath string `mapstructure:"matches_path"`
	Separator   string `mapstructure:"separator" validate:"omitempty,len=1"`
}

// SchedulerConfig represents the cache refresh job configuration
type SchedulerConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	RefreshCron string   `mapstructure:"refresh_cron"`
	Teams       []string `mapstructure:"teams"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging returns true if the environment is staging
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// FallbackRate returns the configured fallback for a metric
func (c *ModelConfig) FallbackRate(metric models.Metric) models.TeamRate {
	var rc RateConfig
	switch metric {
	case models.MetricCorners:
		rc = c.FallbackCorners
	case models.MetricCards:
		rc = c.FallbackCards
	default:
		rc = c.Fallback
	}
	return models.TeamRate{ForAvg: rc.For, AgainstAvg: rc.Against}
}

// CacheTTL returns the supplier cache TTL as a duration
func (c *DataSourceConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Timeout returns the API request timeout as a duration
func (c *APISportsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
