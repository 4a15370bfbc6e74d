// Package config loads the Arbiter's ambient configuration the way
// park285-Cheese-KakaoTalk-bot loads its bot config: a YAML file via
// gopkg.in/yaml.v3, with a .env overlay (github.com/joho/godotenv) read
// first so deployment secrets never need to live in the committed YAML.
package config

import (
	"fmt"
	"math/big"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full set of ambient settings an Arbiter deployment
// needs beyond the fixed spec.md §6 domain literals.
type Config struct {
	ChainID             int64  `yaml:"chain_id"`
	VerifyingContract   string `yaml:"verifying_contract"`
	TimeoutDuration     int64  `yaml:"timeout_duration_seconds"`
	DefaultTimeoutStake string `yaml:"default_timeout_stake"`
	LogLevel            string `yaml:"log_level"`

	Storage struct {
		Driver string `yaml:"driver"` // "memory", "redis", or "postgres"
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`
}

// DefaultTimeoutStakeWei parses DefaultTimeoutStake as a base-10 integer
// number of wei.
func (c Config) DefaultTimeoutStakeWei() (*big.Int, error) {
	v, ok := new(big.Int).SetString(c.DefaultTimeoutStake, 10)
	if !ok {
		return nil, fmt.Errorf("config: invalid default_timeout_stake %q", c.DefaultTimeoutStake)
	}
	return v, nil
}

// Default returns the literal spec.md §6 values as a starting Config.
func Default() Config {
	c := Config{
		ChainID:             137,
		VerifyingContract:   "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC",
		TimeoutDuration:     300,
		DefaultTimeoutStake: "100000000000000000",
		LogLevel:            "info",
	}
	c.Storage.Driver = "memory"
	return c
}

// Load reads envPath (if it exists) into the process environment via
// godotenv, then parses yamlPath into a Config seeded with Default().
// A missing envPath is not an error — it is normal in environments that
// inject secrets directly (CI, container orchestration).
func Load(yamlPath, envPath string) (Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: load .env: %w", err)
		}
	}

	cfg := Default()
	if yamlPath != "" {
		b, err := os.ReadFile(yamlPath)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: read %s: %w", yamlPath, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", yamlPath, err)
			}
		}
	}

	if dsn := os.Getenv("GAMEJUTSU_STORAGE_DSN"); dsn != "" {
		cfg.Storage.DSN = dsn
	}
	return cfg, nil
}
