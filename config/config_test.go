package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr %q", cfg.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level %q", cfg.LogLevel)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.yaml")
	body := `
addr: ":9090"
database_url: "postgres://localhost/later"
cache:
  capacity: 32
auth:
  tokens:
    - user_id: "user-1"
      token_hash: "$2a$10$abcdefghijklmnopqrstuv"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr %q", cfg.Addr)
	}
	if cfg.DatabaseURL != "postgres://localhost/later" {
		t.Fatalf("database url %q", cfg.DatabaseURL)
	}
	if cfg.Cache.Capacity != 32 {
		t.Fatalf("cache capacity %d", cfg.Cache.Capacity)
	}
	if len(cfg.Auth.Tokens) != 1 || cfg.Auth.Tokens[0].UserID != "user-1" {
		t.Fatalf("tokens %+v", cfg.Auth.Tokens)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LATER_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("addr %q, want env override", cfg.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}
