package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Provider credentials are resolved here once at process start and passed
// into constructors; nothing else in the codebase reads the environment.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Timezone used for calendar-date bucketing of the history series.
	Timezone string

	// Persistence
	Database DatabaseConfig
	History  HistoryConfig

	// Redis (optional shared result cache)
	Redis RedisConfig

	// External providers
	Yahoo            YahooConfig
	AlphaVantage     AlphaVantageConfig
	FRED             FREDConfig
	Bacen            BacenConfig
	TradingEconomics TradingEconomicsConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration. URL is optional: when it
// is empty the history series is persisted to a local JSON file instead.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// HistoryConfig holds the file fallback for history persistence.
type HistoryConfig struct {
	Path string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds the RapidAPI Yahoo Finance quote provider settings.
type YahooConfig struct {
	APIKey  string
	BaseURL string
}

// AlphaVantageConfig holds the secondary FX-rate provider settings.
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string
}

// FREDConfig holds the St. Louis Fed time-series provider settings.
type FREDConfig struct {
	APIKey  string
	BaseURL string
}

// BacenConfig holds the Banco Central SGS time-series provider settings.
// The SGS API is public; no credential is required.
type BacenConfig struct {
	BaseURL string
}

// TradingEconomicsConfig holds the economic-calendar provider settings.
type TradingEconomicsConfig struct {
	APIKey  string // format: user:pass or plain api key
	BaseURL string
}

// Load reads configuration from environment variables.
// This is the only function in the repo that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:     getEnv("PORT", "8090"),
		Env:      getEnv("ENV", "development"),
		Timezone: getEnv("TIMEZONE", "America/Sao_Paulo"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		History: HistoryConfig{
			Path: getEnv("HISTORY_PATH", filepath.Join(".data", "history.json")),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Yahoo: YahooConfig{
			APIKey:  getEnv("RAPIDAPI_KEY", ""),
			BaseURL: getEnv("YAHOO_BASE_URL", "https://yh-finance.p.rapidapi.com"),
		},

		AlphaVantage: AlphaVantageConfig{
			APIKey:  getEnv("ALPHA_VANTAGE_KEY", ""),
			BaseURL: getEnv("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co"),
		},

		FRED: FREDConfig{
			APIKey:  getEnv("FRED_API_KEY", ""),
			BaseURL: getEnv("FRED_BASE_URL", "https://api.stlouisfed.org"),
		},

		Bacen: BacenConfig{
			BaseURL: getEnv("BACEN_BASE_URL", "https://api.bcb.gov.br"),
		},

		TradingEconomics: TradingEconomicsConfig{
			APIKey:  getEnv("TRADINGECONOMICS_KEY", ""),
			BaseURL: getEnv("TRADINGECONOMICS_BASE_URL", "https://api.tradingeconomics.com"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration consistency. Provider keys are all
// optional: a missing credential degrades that provider to "unavailable".
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is not a valid IANA zone: %w", c.Timezone, err)
	}

	if c.History.Path == "" && c.Database.URL == "" {
		return fmt.Errorf("either DATABASE_URL or HISTORY_PATH must be set")
	}

	return nil
}

// Location returns the configured time zone. validate() guarantees the
// zone parses after Load(); UTC is the fallback for hand-built configs.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// loadEnvFile tries to load .env from a few likely locations.
func loadEnvFile() {
	paths := []string{
		".env",
		filepath.Join("..", ".env"),
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
