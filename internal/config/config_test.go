package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"RULES_FILE", "BOARD_SIZE", "TURN_TIME_LIMIT_SEC", "PLAYER1_NAME", "PLAYER2_NAME", "REDIS_URL", "DATABASE_URL", "SNAPSHOT_TTL_SEC"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rules != checkers.DefaultRules() {
		t.Fatalf("rules = %+v", cfg.Rules)
	}
	if cfg.TurnBudget != 300*time.Second {
		t.Fatalf("budget = %v", cfg.TurnBudget)
	}
	if cfg.RedisURL != "" || cfg.DatabaseURL != "" {
		t.Fatalf("collaborators enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("size: 10\npiece_rows: 4\nregular_captures_backward: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("RULES_FILE", path)
	t.Setenv("BOARD_SIZE", "")
	t.Setenv("TURN_TIME_LIMIT_SEC", "60")
	t.Setenv("PLAYER1_NAME", "DIOGO")
	t.Setenv("PLAYER2_NAME", "PEDRO")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rules.Size != 10 || cfg.Rules.PieceRows != 4 || !cfg.Rules.RegularCapturesBackward {
		t.Fatalf("rules = %+v", cfg.Rules)
	}
	if !cfg.Rules.FlyingQueens {
		t.Fatalf("absent keys must keep defaults")
	}
	if cfg.TurnBudget != time.Minute || cfg.Player1Name != "DIOGO" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadBoardSize(t *testing.T) {
	t.Setenv("RULES_FILE", "")
	t.Setenv("BOARD_SIZE", "7")
	if _, err := Load(); !errors.Is(err, checkers.ErrInvalidRules) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BOARD_SIZE", "eight"},
		{"TURN_TIME_LIMIT_SEC", "5m"},
		{"TURN_TIME_LIMIT_SEC", "0"},
		{"SNAPSHOT_TTL_SEC", "abc"},
		{"SNAPSHOT_TTL_SEC", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			for _, k := range []string{"RULES_FILE", "BOARD_SIZE", "TURN_TIME_LIMIT_SEC", "SNAPSHOT_TTL_SEC", "PLAYER1_NAME", "PLAYER2_NAME"} {
				t.Setenv(k, "")
			}
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Fatalf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestLoadSnapshotTTL(t *testing.T) {
	t.Setenv("RULES_FILE", "")
	t.Setenv("BOARD_SIZE", "")
	t.Setenv("TURN_TIME_LIMIT_SEC", "")
	t.Setenv("SNAPSHOT_TTL_SEC", "90")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SnapshotTTL != 90*time.Second {
		t.Fatalf("ttl = %v", cfg.SnapshotTTL)
	}
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"empty keeps base", "", true},
		{"first player two", "first_player: 2\n", true},
		{"unknown key", "kings: true\n", false},
		{"bad first player", "first_player: 3\n", false},
		{"rows too deep", "piece_rows: 4\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.in), checkers.DefaultRules())
			if tt.ok && err != nil {
				t.Fatalf("ParseRules: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
