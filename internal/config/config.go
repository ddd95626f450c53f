package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config mirrors config/config.yaml
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Schedule ProviderConfig `mapstructure:"schedule"` // schedule provider (MLB Stats API)
	Odds     ProviderConfig `mapstructure:"odds"`     // odds provider (The Odds API)
	Teams    TeamsConfig    `mapstructure:"teams"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Publish  PublishConfig  `mapstructure:"publish"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

// PostgresConfig an empty DSN disables the run log and the postgres publisher.
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"` // silent/error/warn/info
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"` // 0 keeps artifacts until overwritten
}

// ProviderConfig transport settings for one upstream provider
type ProviderConfig struct {
	Provider string `mapstructure:"provider"` // registered adapter tag, e.g. mlb-statsapi
	BaseURL  string `mapstructure:"base_url"`
	Timeout  int    `mapstructure:"timeout"` // seconds
	Proxy    string `mapstructure:"proxy"`
	APIKey   string `mapstructure:"api_key"`
	SportID  int    `mapstructure:"sport_id"` // MLB Stats API sportId, 1 = MLB
	Sport    string `mapstructure:"sport"`    // Odds API sport key, e.g. baseball_mlb
}

type TeamsConfig struct {
	TablePath string `mapstructure:"table_path"` // empty uses the embedded MLB table
}

type PipelineConfig struct {
	// MalformedTimestampPolicy is "exclude" (default) or "emit"
	MalformedTimestampPolicy string `mapstructure:"malformed_timestamp_policy"`
}

type PublishConfig struct {
	Backend        string `mapstructure:"backend"` // s3/postgres/redis
	ArtifactPrefix string `mapstructure:"artifact_prefix"`
	LatestAlias    string `mapstructure:"latest_alias"` // optional fixed name, e.g. mlb_schedule.json
	S3Bucket       string `mapstructure:"s3_bucket"`
	S3Region       string `mapstructure:"s3_region"`
}

// LoadConfig loads config/config.yaml; secrets from .env / environment take precedence.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("./config")
}

// LoadConfigFrom same as LoadConfig with an explicit directory holding config.yaml
func LoadConfigFrom(dir string) (*Config, error) {
	// 1. .env is optional
	_ = godotenv.Load()

	// 2. config.yaml
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	// 3. env > yaml for sensitive values
	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("postgres.max_open_conns", 5)
	v.SetDefault("postgres.max_idle_conns", 2)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)
	v.SetDefault("postgres.log_level", "warn")
	v.SetDefault("schedule.provider", "mlb-statsapi")
	v.SetDefault("schedule.base_url", "https://statsapi.mlb.com/api/v1")
	v.SetDefault("schedule.timeout", 15)
	v.SetDefault("schedule.sport_id", 1)
	v.SetDefault("odds.provider", "the-odds-api")
	v.SetDefault("odds.base_url", "https://api.the-odds-api.com")
	v.SetDefault("odds.timeout", 15)
	v.SetDefault("odds.sport", "baseball_mlb")
	v.SetDefault("pipeline.malformed_timestamp_policy", "exclude")
	v.SetDefault("publish.backend", "s3")
	v.SetDefault("publish.artifact_prefix", "mlb_schedule/")
}

// overrideFromEnv lets the environment override secrets
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("ODDS_API_KEY"); v != "" {
		cfg.Odds.APIKey = v
	}
	if v := os.Getenv("ODDS_PROXY"); v != "" {
		cfg.Odds.Proxy = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Publish.S3Bucket = v
	}
}

// Validate rejects combinations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Pipeline.MalformedTimestampPolicy {
	case "exclude", "emit":
	default:
		return fmt.Errorf("pipeline.malformed_timestamp_policy must be exclude or emit, got %q", c.Pipeline.MalformedTimestampPolicy)
	}
	switch c.Publish.Backend {
	case "s3":
		if c.Publish.S3Bucket == "" {
			return fmt.Errorf("publish.s3_bucket is required for the s3 backend")
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for the postgres backend")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown publish.backend %q", c.Publish.Backend)
	}
	return nil
}

// GetGORMConfig gorm settings derived from postgres.log_level
func (p *PostgresConfig) GetGORMConfig() *gorm.Config {
	level := logger.Warn
	switch p.LogLevel {
	case "silent":
		level = logger.Silent
	case "error":
		level = logger.Error
	case "info":
		level = logger.Info
	}
	return &gorm.Config{Logger: logger.Default.LogMode(level)}
}
