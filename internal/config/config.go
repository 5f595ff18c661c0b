package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Addr string

	DBDriver string
	DBDSN    string

	JWTSecret  string
	TokenTTL   time.Duration // 0 means tokens never expire
	BcryptCost int

	// Optional. When set, poll notifications are relayed through Redis pub/sub.
	RedisAddr string

	PollTimeout    time.Duration
	PollBatchSize  int
	PollMaxPerUser int
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:       getEnv("ADDR", ":8080"),
		DBDriver:   getEnv("DB_DRIVER", "pgx"),
		DBDSN:      os.Getenv("DB_DSN"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		BcryptCost: 10,

		PollTimeout:    30 * time.Second,
		PollBatchSize:  100,
		PollMaxPerUser: 16,
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	var err error
	if cfg.TokenTTL, err = getEnvDuration("TOKEN_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.PollTimeout, err = getEnvDuration("POLL_TIMEOUT", cfg.PollTimeout); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", cfg.BcryptCost); err != nil {
		return nil, err
	}
	if cfg.PollBatchSize, err = getEnvInt("POLL_BATCH_SIZE", cfg.PollBatchSize); err != nil {
		return nil, err
	}
	if cfg.PollMaxPerUser, err = getEnvInt("POLL_MAX_PER_USER", cfg.PollMaxPerUser); err != nil {
		return nil, err
	}

	if cfg.PollTimeout <= 0 {
		return nil, fmt.Errorf("POLL_TIMEOUT must be positive, got %s", cfg.PollTimeout)
	}
	if cfg.PollBatchSize <= 0 {
		return nil, fmt.Errorf("POLL_BATCH_SIZE must be positive, got %d", cfg.PollBatchSize)
	}
	if cfg.PollMaxPerUser <= 0 {
		return nil, fmt.Errorf("POLL_MAX_PER_USER must be positive, got %d", cfg.PollMaxPerUser)
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}
	if cfg.TokenTTL < 0 {
		return nil, fmt.Errorf("TOKEN_TTL must not be negative, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return i, nil
}

func getEnvDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return d, nil
}
