// Package config loads weight profiles and server settings. Weight
// profiles live in YAML files so assessors can tune dimension and
// category weights without rebuilding; every profile is validated at
// load so an invalid weight set never reaches the scoring pipeline.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edcellence/edpex-engine/internal/assessment"
	"github.com/edcellence/edpex-engine/internal/scoring"
)

// WeightProfile is the YAML shape of a custom weight configuration.
// Omitted sections fall back to the NIST/EdPEx defaults.
type WeightProfile struct {
	Process  *scoring.ProcessWeights  `yaml:"process,omitempty"`
	Results  *scoring.ResultsWeights  `yaml:"results,omitempty"`
	Category *scoring.CategoryWeights `yaml:"category,omitempty"`
}

// LoadWeightProfile reads a YAML weight profile and merges it over the
// defaults. An empty path returns the default configuration.
func LoadWeightProfile(path string) (assessment.Config, error) {
	cfg := assessment.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read weight profile %s: %w", path, err)
	}

	var profile WeightProfile
	if err := yaml.Unmarshal(b, &profile); err != nil {
		return cfg, fmt.Errorf("failed to parse weight profile %s: %w", path, err)
	}

	if profile.Process != nil {
		cfg.ProcessWeights = *profile.Process
	}
	if profile.Results != nil {
		cfg.ResultsWeights = *profile.Results
	}
	if profile.Category != nil {
		cfg.CategoryWeights = *profile.Category
	}

	if err := cfg.ProcessWeights.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.ResultsWeights.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.CategoryWeights.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Server holds the environment-driven server settings.
type Server struct {
	Port          string
	DataDir       string
	RedisAddr     string
	RedisPassword string
	WeightProfile string
}

// FromEnv reads server settings from the environment with defaults.
func FromEnv() Server {
	return Server{
		Port:          getEnvOrDefault("PORT", "8080"),
		DataDir:       getEnvOrDefault("DATA_DIR", "./data"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		WeightProfile: os.Getenv("WEIGHT_PROFILE"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
