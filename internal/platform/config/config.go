package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full process configuration. Values come from defaults, then an
// optional YAML file, then COMPANION_* environment variables.
type Config struct {
	Server       Server       `yaml:"server"`
	Logging      Logging      `yaml:"logging"`
	App          App          `yaml:"app"`
	Reachability Reachability `yaml:"reachability"`
	Analytics    Analytics    `yaml:"analytics"`
	Redis        RedisConfig  `yaml:"redis"`
	Kafka        KafkaConfig  `yaml:"kafka"`
	Postgres     Postgres     `yaml:"postgres"`
	RateLimit    RateLimit    `yaml:"rate_limit"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// App identifies the running build and installation.
type App struct {
	Version   string `yaml:"version"`
	InstallID string `yaml:"install_id"`
}

// Reachability configures the connectivity probe behind the connectivity
// diagnostics item.
type Reachability struct {
	ProbeAddr string        `yaml:"probe_addr"`
	Interval  time.Duration `yaml:"interval"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Analytics lists the enabled sinks by name: log, redis, kafka.
type Analytics struct {
	Sinks []string `yaml:"sinks"`
}

// RedisConfig is used by the redis analytics sink. An empty URL disables it.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type KafkaConfig struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
}

// Postgres configures the profile store. An empty DSN selects the in-memory
// store.
type Postgres struct {
	DSN string `yaml:"dsn"`
}

// RateLimit bounds diagnostics refreshes per installation. A zero limit
// disables it.
type RateLimit struct {
	RefreshLimit  int           `yaml:"refresh_limit"`
	RefreshWindow time.Duration `yaml:"refresh_window"`
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		App: App{
			Version: "dev",
		},
		Reachability: Reachability{
			ProbeAddr: "1.1.1.1:443",
			Interval:  30 * time.Second,
			Timeout:   3 * time.Second,
		},
		Analytics: Analytics{
			Sinks: []string{"log"},
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic:    "companion.analytics",
			ClientID: "companion",
		},
		RateLimit: RateLimit{
			RefreshLimit:  10,
			RefreshWindow: time.Minute,
		},
	}
}

// Load reads the YAML file at path when it exists and applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("COMPANION_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("COMPANION_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("COMPANION_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("COMPANION_APP_VERSION"); v != "" {
		c.App.Version = v
	}
	if v := os.Getenv("COMPANION_INSTALL_ID"); v != "" {
		c.App.InstallID = v
	}
	if v := os.Getenv("COMPANION_PROBE_ADDR"); v != "" {
		c.Reachability.ProbeAddr = v
	}
	if v := os.Getenv("COMPANION_PROBE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("COMPANION_PROBE_INTERVAL: %w", err)
		}
		c.Reachability.Interval = d
	}
	if v := os.Getenv("COMPANION_ANALYTICS_SINKS"); v != "" {
		c.Analytics.Sinks = splitList(v)
	}
	if v := os.Getenv("COMPANION_REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("COMPANION_REDIS_POOL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMPANION_REDIS_POOL_SIZE: %w", err)
		}
		c.Redis.PoolSize = n
	}
	if v := os.Getenv("COMPANION_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("COMPANION_KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("COMPANION_POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("COMPANION_REFRESH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMPANION_REFRESH_LIMIT: %w", err)
		}
		c.RateLimit.RefreshLimit = n
	}
	return nil
}

// Validate rejects sink selections that lack their backing configuration.
func (c *Config) Validate() error {
	for _, sink := range c.Analytics.Sinks {
		switch sink {
		case "log":
		case "redis":
			if c.Redis.URL == "" {
				return fmt.Errorf("analytics sink redis requires redis.url")
			}
		case "kafka":
			if len(c.Kafka.Brokers) == 0 {
				return fmt.Errorf("analytics sink kafka requires kafka.brokers")
			}
			if c.Kafka.Topic == "" {
				return fmt.Errorf("analytics sink kafka requires kafka.topic")
			}
		default:
			return fmt.Errorf("unknown analytics sink %q", sink)
		}
	}
	if c.Reachability.Interval <= 0 {
		return fmt.Errorf("reachability.interval must be positive")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
