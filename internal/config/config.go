// Package config loads service settings from the environment and game rules
// from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Tydestiny/Incan-Gold/internal/game"
)

// Config holds the settings of the serve command
type Config struct {
	Port          string `env:"INCAN_PORT" envDefault:"8080"`
	NATSURL       string `env:"INCAN_NATS_URL"`
	NATSPrefix    string `env:"INCAN_NATS_PREFIX" envDefault:"incan"`
	DBPath        string `env:"INCAN_DB_PATH"`
	RulesFile     string `env:"INCAN_RULES_FILE"`
	Policy        string `env:"INCAN_POLICY" envDefault:"heuristic"`
	PolicySubject string `env:"INCAN_POLICY_SUBJECT" envDefault:"incan.policy.decide"`
	OTelEndpoint  string `env:"INCAN_OTEL_ENDPOINT"`
	Debug         bool   `env:"DEBUG"`
}

// Load reads an optional .env file, then parses the environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return ParseEnv()
}

// ParseEnv parses the environment into a Config
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadRules returns the default rules overlaid with the YAML file at path.
// An empty path yields the defaults.
func LoadRules(path string) (game.Rules, error) {
	rules := game.DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return game.Rules{}, fmt.Errorf("reading rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules overlays YAML rules onto the defaults and validates the result
func ParseRules(data []byte) (game.Rules, error) {
	rules := game.DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return game.Rules{}, fmt.Errorf("parsing rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return game.Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}
