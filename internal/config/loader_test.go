package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("expected max_conns 15, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Relay.Timeout != 10*time.Second {
		t.Errorf("expected relay timeout 10s, got %v", cfg.Relay.Timeout)
	}
	if !cfg.Policy.AllowAIWhileHuman {
		t.Error("expected allow_ai_while_human to default to true")
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  cors_origin: "http://example.com"
relay:
  timeout: 5s
policy:
  allow_ai_while_human: false
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Relay.Timeout != 5*time.Second {
		t.Errorf("expected relay timeout 5s, got %v", cfg.Relay.Timeout)
	}
	if cfg.Policy.AllowAIWhileHuman {
		t.Error("expected allow_ai_while_human false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("expected default max_conns, got %d", cfg.Postgres.MaxConns)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	if err := loadYAML(&cfg, "/nonexistent/path.yaml"); err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("WADESK_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("WADESK_RELAY_TIMEOUT", "30s")
	t.Setenv("WADESK_ALLOW_AI_WHILE_HUMAN", "false")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("unexpected DSN %s", cfg.Postgres.DSN)
	}
	if cfg.Relay.Timeout != 30*time.Second {
		t.Errorf("expected relay timeout 30s, got %v", cfg.Relay.Timeout)
	}
	if cfg.Policy.AllowAIWhileHuman {
		t.Error("expected allow_ai_while_human false")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}

	cfg.Auth.JWTSecret = ""
	if err := validate(&cfg); err == nil {
		t.Error("expected error for empty jwt secret")
	}

	cfg = Defaults()
	cfg.Relay.Timeout = 0
	if err := validate(&cfg); err == nil {
		t.Error("expected error for zero relay timeout")
	}
}
