// Package config loads service configuration from defaults, an optional YAML
// file and ZONES_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "ZONES_"
	maxConfigFileSize = 1024 * 1024
)

var ErrConfigTooLarge = errors.New("config file exceeds 1MB")

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Mongo   MongoConfig   `koanf:"mongo"`
	Redis   RedisConfig   `koanf:"redis"`
	Scoring ScoringConfig `koanf:"scoring"`
	Log     LogConfig     `koanf:"log"`
}

type ServerConfig struct {
	HTTPPort           int           `koanf:"http_port" validate:"min=1,max=65535"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
	MaxRosterSize      int           `koanf:"max_roster_size" validate:"min=1"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`
}

type MongoConfig struct {
	URI      string        `koanf:"uri" validate:"required"`
	Database string        `koanf:"database" validate:"required"`
	Timeout  time.Duration `koanf:"timeout"`
}

// RedisConfig accepts either host:port or a redis:// URL in Addr
type RedisConfig struct {
	Addr string        `koanf:"addr" validate:"required"`
	TTL  time.Duration `koanf:"ttl"`
}

type ScoringConfig struct {
	ScaleMin           int     `koanf:"scale_min" validate:"min=1"`
	ScaleMax           int     `koanf:"scale_max" validate:"gtfield=ScaleMin"`
	Epsilon            float64 `koanf:"epsilon" validate:"gt=0,lt=1"`
	Workers            int     `koanf:"workers"`
	InstrumentPath     string  `koanf:"instrument_path"`
	PreferStoredLabels bool    `koanf:"prefer_stored_labels"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:           8080,
			CORSAllowedOrigins: []string{"*"},
			MaxRosterSize:      5000,
			ShutdownTimeout:    10 * time.Second,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "workshopzones",
			Timeout:  10 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  10 * time.Minute,
		},
		Scoring: ScoringConfig{
			ScaleMin: 1,
			ScaleMax: 5,
			Epsilon:  0.01,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration. An empty path or a missing file is not an error;
// defaults and environment variables still apply.
//
//	ZONES_SERVER_HTTP_PORT             -> server.http_port
//	ZONES_SCORING_PREFER_STORED_LABELS -> scoring.prefer_stored_labels
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if content != nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// envKeyValue maps ZONES_SECTION_FIELD_NAME to section.field_name. List
// values are comma separated.
func envKeyValue(key, value string) (string, any) {
	lower := strings.ToLower(strings.TrimPrefix(key, envPrefix))
	section, field, found := strings.Cut(lower, "_")
	if !found {
		return lower, value
	}
	key = section + "." + field
	if key == "server.cors_allowed_origins" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, value
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(content) > maxConfigFileSize {
		return nil, ErrConfigTooLarge
	}
	return content, nil
}

// applyDefaults restores values that were explicitly zeroed
func applyDefaults(cfg *Config) {
	def := Default()
	if len(cfg.Server.CORSAllowedOrigins) == 0 {
		cfg.Server.CORSAllowedOrigins = def.Server.CORSAllowedOrigins
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if cfg.Mongo.Timeout == 0 {
		cfg.Mongo.Timeout = def.Mongo.Timeout
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = def.Redis.TTL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}
