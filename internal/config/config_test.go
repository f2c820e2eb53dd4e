package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":8080")
	}
	if cfg.JWTIssuer != "oacp-auth" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "oacp-auth")
	}
	if cfg.JWTAudience != "oacp-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "oacp-api")
	}
	if cfg.InviteTTL != "72h" {
		t.Errorf("InviteTTL = %q, want %q", cfg.InviteTTL, "72h")
	}
	if cfg.AuditKafkaTopic != "oacp-audit" {
		t.Errorf("AuditKafkaTopic = %q, want %q", cfg.AuditKafkaTopic, "oacp-audit")
	}
	if cfg.KafkaGroupID != "oacp-audit-worker" {
		t.Errorf("KafkaGroupID = %q, want %q", cfg.KafkaGroupID, "oacp-audit-worker")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GRPC_ADDR", ":9999")
	t.Setenv("DATABASE_URL", "postgres://localhost/oacp_test")
	t.Setenv("INVITE_TTL", "24h")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":9999" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":9999")
	}
	if cfg.DatabaseURL != "postgres://localhost/oacp_test" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "postgres://localhost/oacp_test")
	}
	if cfg.InviteTTLDuration() != 24*time.Hour {
		t.Errorf("InviteTTLDuration = %v, want %v", cfg.InviteTTLDuration(), 24*time.Hour)
	}
	want := []string{"broker-1:9092", "broker-2:9092"}
	if got := cfg.AuditKafkaBrokersList(); !reflect.DeepEqual(got, want) {
		t.Errorf("AuditKafkaBrokersList = %v, want %v", got, want)
	}
}

func TestLoad_InvalidInviteTTL(t *testing.T) {
	t.Setenv("INVITE_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-duration INVITE_TTL")
	}
}

func TestLoad_NegativeInviteTTL(t *testing.T) {
	t.Setenv("INVITE_TTL", "-1h")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative INVITE_TTL")
	}
}

func TestAccessTTL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Duration
	}{
		{"set", "30m", 30 * time.Minute},
		{"unset falls back", "", 15 * time.Minute},
		{"invalid falls back", "forever", 15 * time.Minute},
		{"negative falls back", "-5m", 15 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{JWTAccessTTL: tc.in}
			if got := cfg.AccessTTL(); got != tc.want {
				t.Errorf("AccessTTL(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAuditKafkaBrokersList_Empty(t *testing.T) {
	cfg := &Config{AuditKafkaBrokers: ""}
	if got := cfg.AuditKafkaBrokersList(); got != nil {
		t.Errorf("AuditKafkaBrokersList = %v, want nil", got)
	}
}

func TestAuditKafkaBrokersList_SkipsBlankEntries(t *testing.T) {
	cfg := &Config{AuditKafkaBrokers: "a:9092,, b:9092 ,"}
	want := []string{"a:9092", "b:9092"}
	if got := cfg.AuditKafkaBrokersList(); !reflect.DeepEqual(got, want) {
		t.Errorf("AuditKafkaBrokersList = %v, want %v", got, want)
	}
}
