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
// All environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Scenario pipeline
	Pipeline PipelineConfig

	// Scoring
	Scoring ScoringConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// PipelineConfig holds scenario construction parameters.
// Passed explicitly into the normalizer and builder, never read from a global.
type PipelineConfig struct {
	LookbackMonths    int    // historical months shown to the player
	ForwardMonths     int    // hidden months the player predicts
	MaxMissingColumns int    // normalized rows missing more than this are dropped
	RawDataPath       string // CSV handed over by the ingestion job
	RefreshCron       string // cron spec for the dataset refresh job
}

// TotalMonths returns the full scenario window length.
func (p PipelineConfig) TotalMonths() int {
	return p.LookbackMonths + p.ForwardMonths
}

// ScoringConfig holds the benchmark allocation used for relative
// performance comparison.
type ScoringConfig struct {
	BenchmarkStocks int
	BenchmarkBonds  int
	BenchmarkCash   int
	BenchmarkGold   int
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Pipeline: PipelineConfig{
			LookbackMonths:    getEnvAsInt("LOOKBACK_MONTHS", 24),
			ForwardMonths:     getEnvAsInt("FORWARD_MONTHS", 12),
			MaxMissingColumns: getEnvAsInt("MAX_MISSING_COLUMNS", 3),
			RawDataPath:       getEnv("RAW_DATA_PATH", "data/raw_data.csv"),
			RefreshCron:       getEnv("REFRESH_CRON", "0 3 1 * *"),
		},

		Scoring: ScoringConfig{
			BenchmarkStocks: getEnvAsInt("BENCHMARK_STOCKS", 60),
			BenchmarkBonds:  getEnvAsInt("BENCHMARK_BONDS", 40),
			BenchmarkCash:   getEnvAsInt("BENCHMARK_CASH", 0),
			BenchmarkGold:   getEnvAsInt("BENCHMARK_GOLD", 0),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Pipeline.LookbackMonths <= 0 || c.Pipeline.ForwardMonths <= 0 {
		return fmt.Errorf("LOOKBACK_MONTHS and FORWARD_MONTHS must be positive")
	}

	benchSum := c.Scoring.BenchmarkStocks + c.Scoring.BenchmarkBonds +
		c.Scoring.BenchmarkCash + c.Scoring.BenchmarkGold
	if benchSum != 100 {
		return fmt.Errorf("benchmark allocation must sum to 100, got %d", benchSum)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
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
