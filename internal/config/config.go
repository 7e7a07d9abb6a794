package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string

	// RetrievalURL is the base URL of the topic model service.
	RetrievalURL string
	// RetrievalCutoff is the minimum question similarity in [0, 1] for a
	// retrieval hit to be considered at all.
	RetrievalCutoff float64

	CutoffPercentile float64
	Stars            int
	AcceptedBonus    float64
	SentimentFactor  float64

	CacheTTL time.Duration

	// RateLimitPerSecond and RateLimitBurst bound expert queries per client IP.
	RateLimitPerSecond float64
	RateLimitBurst     int

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		RetrievalURL: getEnv("RETRIEVAL_URL", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RetrievalURL == "" {
		return nil, fmt.Errorf("RETRIEVAL_URL is required")
	}

	var err error
	if cfg.RetrievalCutoff, err = getFloat("RETRIEVAL_CUTOFF", 0.5); err != nil {
		return nil, err
	}
	if cfg.RetrievalCutoff < 0 || cfg.RetrievalCutoff > 1 {
		return nil, fmt.Errorf("RETRIEVAL_CUTOFF must be in [0, 1]")
	}

	if cfg.CutoffPercentile, err = getFloat("CUTOFF_PERCENTILE", 75); err != nil {
		return nil, err
	}
	if cfg.CutoffPercentile < 0 || cfg.CutoffPercentile >= 100 {
		return nil, fmt.Errorf("CUTOFF_PERCENTILE must be in [0, 100)")
	}

	if cfg.Stars, err = getInt("STARS", 5); err != nil {
		return nil, err
	}
	if cfg.Stars < 1 {
		return nil, fmt.Errorf("STARS must be at least 1")
	}

	if cfg.AcceptedBonus, err = getFloat("ACCEPTED_BONUS", 0.5); err != nil {
		return nil, err
	}
	if cfg.SentimentFactor, err = getFloat("SENTIMENT_FACTOR", 0.7); err != nil {
		return nil, err
	}

	ttlSeconds, err := getInt("CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	if ttlSeconds < 0 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must not be negative")
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	if cfg.RateLimitPerSecond, err = getFloat("RATE_LIMIT_PER_SECOND", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerSecond <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive")
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return value, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
