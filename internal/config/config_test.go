package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("INVITE_BASE_URL", "https://app.example.com")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET in error, got %v", err)
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_DSN", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing database config")
	}
}

func TestLoadRequiresInviteBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("INVITE_BASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing INVITE_BASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.DB.SSLMode != "disable" {
		t.Fatalf("expected default sslmode disable, got %q", cfg.DB.SSLMode)
	}
	if cfg.Activity.BufferSize != 256 {
		t.Fatalf("expected default activity buffer 256, got %d", cfg.Activity.BufferSize)
	}
}

func TestGetDSNPrefersExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@h/db", Host: "ignored"}
	if cfg.GetDSN() != "postgres://u:p@h/db" {
		t.Fatalf("expected explicit DSN, got %q", cfg.GetDSN())
	}
}
