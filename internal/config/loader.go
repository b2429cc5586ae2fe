package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "MATCH_ODDS"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables are used instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// ReloadFromEnv reloads the configuration when MATCH_ODDS_CONFIG_PATH is set
func ReloadFromEnv(cfg *Config) error {
	envPath := os.Getenv(envPrefix + "_CONFIG_PATH")
	if envPath == "" {
		return nil
	}

	newCfg, err := LoadWithDefaults(envPath)
	if err != nil {
		return err
	}
	*cfg = *newCfg
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "match-odds")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("model.max_goals", 7)
	v.SetDefault("model.lambda_floor", 0.05)
	v.SetDefault("model.form_window", 5)
	v.SetDefault("model.form_weight", 0.3)
	v.SetDefault("model.goal_lines", []float64{0.5, 1.5, 2.5, 3.5, 4.5})
	v.SetDefault("model.corner_lines", []float64{8.5, 9.5, 10.5, 11.5})
	v.SetDefault("model.card_lines", []float64{2.5, 3.5, 4.5, 5.5, 6.5})
	v.SetDefault("model.top_scores", 5)
	v.SetDefault("model.correct_score_markets", true)
	v.SetDefault("model.fallback.for", 1.20)
	v.SetDefault("model.fallback.against", 1.10)
	v.SetDefault("model.fallback_corners.for", 5.0)
	v.SetDefault("model.fallback_corners.against", 5.0)
	v.SetDefault("model.fallback_cards.for", 2.0)
	v.SetDefault("model.fallback_cards.against", 2.0)

	v.SetDefault("staking.bankroll", 100.0)
	v.SetDefault("staking.kelly_safety_factor", 0.25)
	v.SetDefault("staking.min_pick_probability", 0.55)
	v.SetDefault("staking.max_pick_probability", 0.80)

	v.SetDefault("data_source.type", "csv")
	v.SetDefault("data_source.cache_ttl_seconds", 3600)
	v.SetDefault("data_source.cache_max_size", 500)
	v.SetDefault("data_source.api_sports.base_url", "https://v3.football.api-sports.io")
	v.SetDefault("data_source.api_sports.last_matches", 15)
	v.SetDefault("data_source.api_sports.timeout_seconds", 10)
	v.SetDefault("data_source.api_sports.rate_limit", 10)
	v.SetDefault("data_source.api_sports.max_retries", 3)
	v.SetDefault("data_source.csv.matches_path", "data/matches.csv")
	v.SetDefault("data_source.csv.separator", ";")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.refresh_cron", "0 */6 * * *")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 10)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
