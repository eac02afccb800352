package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIBase = "http://localhost:8080"
	defaultWSURL   = "ws://localhost:8080/ws"
)

// Config holds application configuration
type Config struct {
	API struct {
		BaseURL string `yaml:"baseUrl"`
		WSURL   string `yaml:"wsUrl"`
	} `yaml:"api"`

	YouTube struct {
		APIKey string `yaml:"apiKey"`
	} `yaml:"youtube"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Debug bool `yaml:"debug"`
}

// Load reads the optional YAML config file, then layers environment
// overrides on top. A .env file in the working directory is honored
// when present. Anything still unset falls back to the local dev origin.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()

	if v := os.Getenv("NEWSBALANCE_API_BASE"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("NEWSBALANCE_WS_URL"); v != "" {
		cfg.API.WSURL = v
	}
	if v := os.Getenv("YT_API_KEY"); v != "" {
		cfg.YouTube.APIKey = v
	}
	if v := os.Getenv("NEWSBALANCE_STORAGE"); v != "" {
		cfg.Storage.Path = v
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultAPIBase
	}
	if cfg.API.WSURL == "" {
		cfg.API.WSURL = defaultWSURL
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "newsbalance.db"
	}

	return &cfg, nil
}
