package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBDriver != "pgx" {
		t.Errorf("expected default driver pgx, got %q", cfg.DBDriver)
	}
	if cfg.PollTimeout != 30*time.Second {
		t.Errorf("expected default poll timeout 30s, got %s", cfg.PollTimeout)
	}
	if cfg.PollBatchSize != 100 {
		t.Errorf("expected default batch size 100, got %d", cfg.PollBatchSize)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("expected default bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.TokenTTL != 0 {
		t.Errorf("expected tokens without expiry by default, got %s", cfg.TokenTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("POLL_TIMEOUT", "5s")
	t.Setenv("POLL_MAX_PER_USER", "2")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBDriver != "sqlite3" || cfg.PollTimeout != 5*time.Second || cfg.PollMaxPerUser != 2 || cfg.TokenTTL != time.Hour {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	tests := []struct {
		name   string
		dsn    string
		secret string
	}{
		{name: "Missing DSN", dsn: "", secret: "secret"},
		{name: "Missing secret", dsn: "file:test.db", secret: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DSN", tt.dsn)
			t.Setenv("JWT_SECRET", tt.secret)

			if _, err := Load(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("POLL_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed POLL_TIMEOUT")
	}
}

func TestLoadRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Zero batch size", key: "POLL_BATCH_SIZE", value: "0"},
		{name: "Negative batch size", key: "POLL_BATCH_SIZE", value: "-5"},
		{name: "Zero poll cap", key: "POLL_MAX_PER_USER", value: "0"},
		{name: "Bcrypt cost too low", key: "BCRYPT_COST", value: "3"},
		{name: "Bcrypt cost too high", key: "BCRYPT_COST", value: "32"},
		{name: "Negative token TTL", key: "TOKEN_TTL", value: "-1h"},
		{name: "Zero poll timeout", key: "POLL_TIMEOUT", value: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DSN", "file:test.db")
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadAcceptsBcryptBounds(t *testing.T) {
	for _, cost := range []string{"4", "31"} {
		t.Setenv("DB_DSN", "file:test.db")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("BCRYPT_COST", cost)

		if _, err := Load(); err != nil {
			t.Errorf("expected BCRYPT_COST=%s to be accepted, got %v", cost, err)
		}
	}
}
