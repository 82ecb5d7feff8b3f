package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port    int           `env:"MINEFIELD_TEST_PORT" envDefault:"123"`
	Timeout time.Duration `env:"MINEFIELD_TEST_TIMEOUT" envDefault:"2s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.Timeout != 2*time.Second {
		t.Fatalf("expected default timeout 2s, got %s", cfg.Timeout)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("MINEFIELD_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvFromIgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("MINEFIELD_TEST_PORT", "999")

	var cfg envTestConfig
	if err := ParseEnvFrom(&cfg, map[string]string{"MINEFIELD_TEST_TIMEOUT": "5s"}); err != nil {
		t.Fatalf("parse env from map: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port from empty map, got %d", cfg.Port)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected timeout 5s, got %s", cfg.Timeout)
	}
}

func TestParseEnvFromNilMapUsesDefaults(t *testing.T) {
	var cfg envTestConfig
	if err := ParseEnvFrom(&cfg, nil); err != nil {
		t.Fatalf("parse env from nil map: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}
