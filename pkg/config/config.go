package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS      CORSConfig
	Log       LogConfig
	Redis     RedisConfig
	Sessions  SessionsConfig
	Generator GeneratorConfig
	Ingest    IngestConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionsConfig governs the lifetime and replication of per-user
// scheduling sessions.
type SessionsConfig struct {
	TTL            time.Duration
	RedisSnapshots bool
}

// GeneratorConfig bounds the combination search.
type GeneratorConfig struct {
	MaxCombinations int
	Timeout         time.Duration
}

// IngestConfig limits catalog uploads.
type IngestConfig struct {
	MaxUploadBytes int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Sessions = SessionsConfig{
		TTL:            parseDuration(v.GetString("SESSION_TTL"), 2*time.Hour),
		RedisSnapshots: v.GetBool("SESSION_REDIS_SNAPSHOTS"),
	}

	maxCombos := v.GetInt("GENERATOR_MAX_COMBINATIONS")
	if maxCombos <= 0 {
		maxCombos = 5000
	}
	cfg.Generator = GeneratorConfig{
		MaxCombinations: maxCombos,
		Timeout:         parseDuration(v.GetString("GENERATOR_TIMEOUT"), 10*time.Second),
	}

	maxUpload := v.GetInt64("INGEST_MAX_UPLOAD_BYTES")
	if maxUpload <= 0 {
		maxUpload = 5 * 1024 * 1024
	}
	cfg.Ingest = IngestConfig{MaxUploadBytes: maxUpload}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("SESSION_REDIS_SNAPSHOTS", false)

	v.SetDefault("GENERATOR_MAX_COMBINATIONS", 5000)
	v.SetDefault("GENERATOR_TIMEOUT", "10s")

	v.SetDefault("INGEST_MAX_UPLOAD_BYTES", 5*1024*1024)
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

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
