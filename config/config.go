package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string `yaml:"addr"`
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`

	Cache struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"cache"`

	Auth struct {
		Tokens []TokenEntry `yaml:"tokens"`
	} `yaml:"auth"`
}

type TokenEntry struct {
	UserID    string `yaml:"user_id"`
	TokenHash string `yaml:"token_hash"`
}

// Load reads the optional YAML file at path, then lets LATER_* environment
// variables override it. A .env file is picked up first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:     ":8080",
		LogLevel: "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("LATER_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LATER_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("LATER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
