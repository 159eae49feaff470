package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override, e.g. GLOBETROTTER_REDIS_ADDR.
const EnvPrefix = "GLOBETROTTER_"

type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"PORT"`
		Mode        string `yaml:"mode" env:"MODE"`
		PublicURL   string `yaml:"public_url" env:"PUBLIC_URL"`
		FrontendURL string `yaml:"frontend_url" env:"FRONTEND_URL"`
	} `yaml:"server" envPrefix:"SERVER_"`
	Log struct {
		Level  string `yaml:"level" env:"LEVEL"`
		Format string `yaml:"format" env:"FORMAT"`
	} `yaml:"log" envPrefix:"LOG_"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
		TokenTTL  string `yaml:"token_ttl" env:"TOKEN_TTL"`
	} `yaml:"auth" envPrefix:"AUTH_"`
	Store struct {
		Driver string `yaml:"driver" env:"DRIVER"`
	} `yaml:"store" envPrefix:"STORE_"`
	Mongo struct {
		URI      string `yaml:"uri" env:"URI"`
		Database string `yaml:"database" env:"DATABASE"`
	} `yaml:"mongo" envPrefix:"MONGO_"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ADDR"`
		Password string `yaml:"password" env:"PASSWORD"`
		DB       int    `yaml:"db" env:"DB"`
		CacheTTL string `yaml:"cache_ttl" env:"CACHE_TTL"`
	} `yaml:"redis" envPrefix:"REDIS_"`
	Postgres struct {
		URL string `yaml:"url" env:"URL"`
	} `yaml:"postgres" envPrefix:"POSTGRES_"`
	Game struct {
		OptionsPerQuestion int    `yaml:"options_per_question" env:"OPTIONS_PER_QUESTION"`
		AnswerMatch        string `yaml:"answer_match" env:"ANSWER_MATCH"`
		ChallengeTTL       string `yaml:"challenge_ttl" env:"CHALLENGE_TTL"`
		ReaperInterval     string `yaml:"reaper_interval" env:"REAPER_INTERVAL"`
	} `yaml:"game" envPrefix:"GAME_"`
	Leaderboard struct {
		Limit int `yaml:"limit" env:"LIMIT"`
	} `yaml:"leaderboard" envPrefix:"LEADERBOARD_"`
}

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// Load reads YAML config from path, then applies environment overrides and
// defaults. A missing file is not an error; env and defaults still apply.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = ModeDevelopment
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost:3000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreMemory
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "globetrotter"
	}
	if c.Game.AnswerMatch == "" {
		c.Game.AnswerMatch = "exact"
	}
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StoreMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo uri not configured")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Game.AnswerMatch != "exact" && c.Game.AnswerMatch != "normalized" {
		return fmt.Errorf("unknown answer match mode %q", c.Game.AnswerMatch)
	}
	if c.Production() && c.Auth.JWTSecret == "" {
		return errors.New("auth jwt_secret is required in production")
	}
	return nil
}

// Production reports whether error details must be hidden from clients.
func (c Config) Production() bool {
	return c.Server.Mode == ModeProduction
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
