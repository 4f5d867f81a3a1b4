package config

import (
	"strings"
	"testing"
	"time"
)

func TestEnsureDSNBuildsPostgresURL(t *testing.T) {
	cfg := DBConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "agk",
		Password: "p@ss word",
		Name:     "agkmart",
		SSLMode:  "require",
	}

	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(cfg.DSN, "postgres://agk:") {
		t.Fatalf("unexpected dsn %q", cfg.DSN)
	}
	if !strings.Contains(cfg.DSN, "db.internal:5433/agkmart") {
		t.Fatalf("dsn missing host/db: %q", cfg.DSN)
	}
	if !strings.Contains(cfg.DSN, "sslmode=require") {
		t.Fatalf("dsn missing sslmode: %q", cfg.DSN)
	}
}

func TestEnsureDSNReportsMissingParts(t *testing.T) {
	cfg := DBConfig{Host: "db.internal"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatalf("expected error for missing user/name")
	}
	if !strings.Contains(err.Error(), EnvDBUser) || !strings.Contains(err.Error(), EnvDBName) {
		t.Fatalf("error should name missing vars: %v", err)
	}
}

func TestEnsureDSNKeepsExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@h/db"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://u:p@h/db" {
		t.Fatalf("dsn should be untouched, got %q", cfg.DSN)
	}
}

func TestSessionTTL(t *testing.T) {
	if ttl := (JWTConfig{ExpirationDays: 30}).SessionTTL(); ttl != 30*24*time.Hour {
		t.Fatalf("unexpected ttl %v", ttl)
	}
	if ttl := (JWTConfig{}).SessionTTL(); ttl != 0 {
		t.Fatalf("zero days should yield zero ttl, got %v", ttl)
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "Development"}).IsDev() {
		t.Fatalf("expected dev")
	}
	if !(AppConfig{Env: "PRODUCTION"}).IsProd() {
		t.Fatalf("expected prod")
	}
}

func TestTwilioEnabled(t *testing.T) {
	if (TwilioConfig{}).Enabled() {
		t.Fatalf("empty twilio config should be disabled")
	}
	full := TwilioConfig{AccountSID: "AC1", AuthToken: "tok", FromNumber: "+1000"}
	if !full.Enabled() {
		t.Fatalf("complete twilio config should be enabled")
	}
}
