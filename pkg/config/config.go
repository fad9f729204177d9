// Package config loads runtime configuration with viper + godotenv, the way
// the teacher's pkg/config does, trimmed to the sections a solver-core
// library (no HTTP server, no auth, no caching) actually needs.
package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Database  DatabaseConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig controls the constraint solver driver, mirroring
// spec.md §6's ConstraintConfig/SolveRequest fields.
type SchedulerConfig struct {
	TimeBudget             time.Duration
	WorkerCount            int
	Seed                   int64
	MinimizeMaxLoad        bool
	RequireConsecutiveLabs bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		TimeBudget:             parseDuration(v.GetString("SCHEDULER_TIME_BUDGET"), 30*time.Second),
		WorkerCount:            v.GetInt("SCHEDULER_WORKER_COUNT"),
		Seed:                   v.GetInt64("SCHEDULER_SEED"),
		MinimizeMaxLoad:        v.GetBool("SCHEDULER_MINIMIZE_MAX_LOAD"),
		RequireConsecutiveLabs: v.GetBool("SCHEDULER_REQUIRE_CONSECUTIVE_LABS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "classroom_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_TIME_BUDGET", "30s")
	v.SetDefault("SCHEDULER_WORKER_COUNT", 1)
	v.SetDefault("SCHEDULER_SEED", 42)
	v.SetDefault("SCHEDULER_MINIMIZE_MAX_LOAD", true)
	v.SetDefault("SCHEDULER_REQUIRE_CONSECUTIVE_LABS", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
