package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Narrator struct {
		APIKey   string `yaml:"apiKey"`
		BaseURL  string `yaml:"baseUrl"`
		Model    string `yaml:"model"`
		Voice    string `yaml:"voice"`
		Timeout  string `yaml:"timeout"`
		CacheTTL string `yaml:"cacheTtl"`
	} `yaml:"narrator"`
	Game struct {
		RewardStars        int    `yaml:"rewardStars"`
		AdvanceDelay       string `yaml:"advanceDelay"`
		MatchCompleteDelay string `yaml:"matchCompleteDelay"`
		StageAdvanceDelay  string `yaml:"stageAdvanceDelay"`
	} `yaml:"game"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
}

// Load reads an optional .env file, then the YAML config at path, then
// applies environment overrides. A missing YAML file yields defaults.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := firstEnv("GEMINI_API_KEY", "API_KEY"); v != "" {
		cfg.Narrator.APIKey = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
}

func applyDefaults(cfg *Config) {
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.Driver == "" {
		switch {
		case cfg.Postgres.URL != "":
			cfg.Storage.Driver = DriverPostgres
		case cfg.Redis.Addr != "":
			cfg.Storage.Driver = DriverRedis
		default:
			cfg.Storage.Driver = DriverFile
		}
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "data/store.json"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Game.RewardStars <= 0 {
		cfg.Game.RewardStars = 5
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
