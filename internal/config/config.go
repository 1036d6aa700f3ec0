package config

import (
	"os"
	"strconv"
	"strings"

	"credscore/domain/risk"
	"credscore/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Scoring  ScoringConfig
	Binning  BinningConfig
	Database DatabaseConfig
}

// DataConfig holds input/output paths
type DataConfig struct {
	InputFile  string
	OutputFile string
}

// ScoringConfig holds RFMS scoring settings
type ScoringConfig struct {
	ReferenceTime    string // RFC3339; empty means "now"
	Weights          []float64
	BoundaryQuantile float64
}

// BinningConfig holds WOE/IV binning settings
type BinningConfig struct {
	Target      string
	GoodLabel   string
	Bins        int
	MaxDistinct int
}

// DatabaseConfig holds the optional result-store connection
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			InputFile:  getEnvOrDefault("INPUT_FILE", ""),
			OutputFile: getEnvOrDefault("OUTPUT_FILE", ""),
		},
		Scoring: ScoringConfig{
			ReferenceTime:    getEnvOrDefault("REFERENCE_TIME", ""),
			BoundaryQuantile: getEnvFloatOrDefault("BOUNDARY_QUANTILE", risk.DefaultBoundaryQuantile),
		},
		Binning: BinningConfig{
			Target:      getEnvOrDefault("TARGET_COLUMN", "RiskLabel"),
			GoodLabel:   getEnvOrDefault("GOOD_LABEL", string(risk.LabelGood)),
			Bins:        getEnvIntOrDefault("WOE_BINS", 5),
			MaxDistinct: getEnvIntOrDefault("WOE_MAX_DISTINCT", 10),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
	}

	weights, err := parseWeights(getEnvOrDefault("RFMS_WEIGHTS", ""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load scoring configuration")
	}
	config.Scoring.Weights = weights

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// parseWeights parses a comma-separated weight list in metric order
// (Recency, Frequency, Monetary, StdDeviation); empty input means defaults.
func parseWeights(raw string) ([]float64, error) {
	if raw == "" {
		return risk.DefaultWeights(), nil
	}
	parts := strings.Split(raw, ",")
	weights := make([]float64, 0, len(parts))
	for _, part := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.ConfigInvalid("RFMS_WEIGHTS must be a comma-separated list of numbers")
		}
		weights = append(weights, w)
	}
	return weights, nil
}

func validateConfig(config *Config) error {
	if len(config.Scoring.Weights) != 4 {
		return errors.ConfigInvalid("RFMS_WEIGHTS requires exactly 4 weights")
	}
	if q := config.Scoring.BoundaryQuantile; q <= 0 || q >= 1 {
		return errors.ConfigInvalid("BOUNDARY_QUANTILE must be within (0, 1)")
	}
	if config.Binning.Bins <= 0 {
		return errors.ConfigInvalid("WOE_BINS must be positive")
	}
	if config.Binning.MaxDistinct <= 0 {
		return errors.ConfigInvalid("WOE_MAX_DISTINCT must be positive")
	}
	if config.Binning.Target == "" {
		return errors.ConfigInvalid("TARGET_COLUMN is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
