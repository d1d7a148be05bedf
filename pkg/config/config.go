package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Stream    StreamConfig    `mapstructure:"stream"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Stubfeed  StubfeedConfig  `mapstructure:"stubfeed"`
}

type AppConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"` // e.g., "local", "prod"
}

type UpstreamConfig struct {
	// APIKey is deliberately not validated at startup: a missing or invalid
	// key degrades every fetch to an absent result instead of failing boot.
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

type SchedulerConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	BatchSize       int `mapstructure:"batch_size"`
}

func (s SchedulerConfig) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

type StreamConfig struct {
	DefaultSymbol string `mapstructure:"default_symbol"`
	RosterPath    string `mapstructure:"roster_path"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "memory" or "redis"
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type StubfeedConfig struct {
	Port string `mapstructure:"port"`
}

// LoadConfig reads configuration from .env file, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. Load .env file into System Environment (if it exists)
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, relying on System Env Vars")
	}

	// 2. Set Defaults
	v.SetDefault("app.port", ":5000")
	v.SetDefault("app.env", "local")

	v.SetDefault("upstream.api_key", "")
	v.SetDefault("upstream.base_url", "https://www.alphavantage.co/query")
	v.SetDefault("upstream.timeout_seconds", 8)

	v.SetDefault("scheduler.interval_seconds", 60)
	v.SetDefault("scheduler.batch_size", 5)

	v.SetDefault("stream.default_symbol", "RELIANCE.NS")
	v.SetDefault("stream.roster_path", "nifty500.json")

	v.SetDefault("store.backend", "memory")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "stock_updates")

	v.SetDefault("stubfeed.port", ":8081")

	// 3. Configure Viper to read Environment Variables
	// Maps dot-notation to underscores (e.g., "upstream.api_key" -> "UPSTREAM_API_KEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Explicitly Bind Env Vars to Keys
	// Crucial for Viper to map flat Env Vars to nested structs
	bindEnv(v, "app.port", "app.env")
	bindEnv(v, "upstream.api_key", "upstream.base_url", "upstream.timeout_seconds")
	bindEnv(v, "scheduler.interval_seconds", "scheduler.batch_size")
	bindEnv(v, "stream.default_symbol", "stream.roster_path")
	bindEnv(v, "store.backend")
	bindEnv(v, "redis.addr", "redis.password", "redis.db")
	bindEnv(v, "kafka.enabled", "kafka.brokers", "kafka.topic")
	bindEnv(v, "stubfeed.port")

	// 5. Unmarshal into Struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %v", err)
	}

	// 6. Basic Validation
	switch cfg.Store.Backend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unknown store backend %q (want memory or redis)", cfg.Store.Backend)
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka enabled but no brokers configured")
	}
	if cfg.Scheduler.BatchSize < 0 {
		return nil, fmt.Errorf("scheduler batch size cannot be negative")
	}

	return &cfg, nil
}

// bindEnv is a helper to bind multiple keys at once
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Printf("Could not bind env var for key %s: %v", key, err)
		}
	}
}
