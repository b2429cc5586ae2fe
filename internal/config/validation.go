package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("lines", validateLines)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// MaxLine is the largest over/under line accepted in configuration
const MaxLine = 100.5

// validateLines requires every over/under line to be a half line in [0.5, MaxLine]
func validateLines(fl validator.FieldLevel) bool {
	lines, ok := fl.Field().Interface().([]float64)
	if !ok {
		return false
	}
	for _, line := range lines {
		if math.IsNaN(line) || line < 0 || line > MaxLine || math.Abs(line-math.Floor(line)-0.5) > 1e-9 {
			return false
		}
	}
	return true
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Staking.MinPickProbability >= cfg.Staking.MaxPickProbability {
		return fmt.Errorf("staking min_pick_probability must be below max_pick_probability")
	}

	if cfg.Model.FormWeight > 0 && cfg.Model.FormWindow == 0 {
		return fmt.Errorf("model form_window must be set when form_weight is positive")
	}

	switch cfg.DataSource.Type {
	case "api_sports":
		if cfg.DataSource.APISports.APIKey == "" {
			return fmt.Errorf("data_source api_sports.api_key is required for the api_sports source")
		}
		if cfg.DataSource.APISports.BaseURL == "" {
			return fmt.Errorf("data_source api_sports.base_url is required for the api_sports source")
		}
	case "csv":
		if cfg.DataSource.CSV.MatchesPath == "" {
			return fmt.Errorf("data_source csv.matches_path is required for the csv source")
		}
	}

	if cfg.Scheduler.Enabled {
		if strings.TrimSpace(cfg.Scheduler.RefreshCron) == "" {
			return fmt.Errorf("scheduler refresh_cron is required when the scheduler is enabled")
		}
		if _, err := cron.ParseStandard(cfg.Scheduler.RefreshCron); err != nil {
			return fmt.Errorf("invalid scheduler refresh_cron: %w", err)
		}
		if len(cfg.Scheduler.Teams) == 0 {
			return fmt.Errorf("scheduler teams must not be empty when the scheduler is enabled")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max", "len":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "lines":
			errMsg += fmt.Sprintf("- Field '%s' must contain half lines between 0.5 and %v such as 2.5, got '%v'\n", field, MaxLine, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
