package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/fx"
)

const (
	envPrefix  = "SKATEBOOK_"
	envConfig  = "SKATEBOOK_CONFIG"
	dotEnvFile = ".env"
)

type Config struct {
	DBPath     string `koanf:"db_path"`
	ServerPort string `koanf:"server_port"`
	LogLevel   string `koanf:"log_level"`

	// 0 seeds the simulator from the clock
	SimulationSeed uint64 `koanf:"simulation_seed"`

	FeedLimit        int    `koanf:"feed_limit"`
	LeaderboardLimit int    `koanf:"leaderboard_limit"`
	CORSOrigins      string `koanf:"cors_origins"`

	// why .env was not read, nil when it was; logged once a logger exists
	DotEnvErr error `koanf:"-"`
}

func Default() *Config {
	return &Config{
		DBPath:           "skatebook.db",
		ServerPort:       "8080",
		LogLevel:         "info",
		FeedLimit:        100,
		LeaderboardLimit: 10,
		CORSOrigins:      "*",
	}
}

// Load layers defaults, an optional YAML file named by SKATEBOOK_CONFIG and
// SKATEBOOK_* environment variables (lowest to highest precedence). A .env file
// in the working directory is read into the environment first; a failure to
// read it is kept in DotEnvErr rather than failing the load.
func Load() (*Config, error) {
	dotEnvErr := godotenv.Load(dotEnvFile)

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if s == envConfig {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.DotEnvErr = dotEnvErr
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("server_port must be numeric, got %q", c.ServerPort)
	}
	if c.FeedLimit <= 0 {
		return fmt.Errorf("feed_limit must be positive, got %d", c.FeedLimit)
	}
	if c.LeaderboardLimit <= 0 {
		return fmt.Errorf("leaderboard_limit must be positive, got %d", c.LeaderboardLimit)
	}
	return nil
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

var Module = fx.Provide(Load)
