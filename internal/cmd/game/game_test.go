package game

import (
	"flag"
	"io"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("MINEFIELD_GAME_PORT", "")
	t.Setenv("MINEFIELD_GAME_ADDR", "")
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8082 {
		t.Fatalf("expected default port 8082, got %d", cfg.Port)
	}
	if cfg.Addr != "" {
		t.Fatalf("expected empty addr, got %q", cfg.Addr)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("MINEFIELD_GAME_PORT", "9100")
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9100 {
		t.Fatalf("expected env port 9100, got %d", cfg.Port)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("MINEFIELD_GAME_PORT", "9100")
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9001", "-addr", "127.0.0.1:9999"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected addr override, got %q", cfg.Addr)
	}
}

func TestParseConfigRejectsBadFlag(t *testing.T) {
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-port", "nope"}); err == nil {
		t.Fatal("expected flag parse error")
	}
}
