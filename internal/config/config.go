package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
)

type AppConfig struct {
	Rules      checkers.Rules
	RulesFile  string
	TurnBudget time.Duration

	Player1Name string
	Player2Name string

	// optional collaborators; empty disables them
	RedisURL    string
	DatabaseURL string
	SnapshotTTL time.Duration

	MessagesDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Rules:       checkers.DefaultRules(),
		TurnBudget:  300 * time.Second,
		Player1Name: "Player 1",
		Player2Name: "Player 2",
		SnapshotTTL: 24 * time.Hour,
	}

	cfg.RulesFile = strings.TrimSpace(os.Getenv("RULES_FILE"))
	if cfg.RulesFile != "" {
		r, err := LoadRules(cfg.RulesFile, cfg.Rules)
		if err != nil {
			return nil, err
		}
		cfg.Rules = r
	}
	// BOARD_SIZE wins over the rules file
	if v := strings.TrimSpace(os.Getenv("BOARD_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("BOARD_SIZE: %w", err)
		}
		cfg.Rules.Size = n
	}
	if v := strings.TrimSpace(os.Getenv("TURN_TIME_LIMIT_SEC")); v != "" {
		d, err := parseSeconds("TURN_TIME_LIMIT_SEC", v)
		if err != nil {
			return nil, err
		}
		cfg.TurnBudget = d
	}
	if v := strings.TrimSpace(os.Getenv("PLAYER1_NAME")); v != "" {
		cfg.Player1Name = v
	}
	if v := strings.TrimSpace(os.Getenv("PLAYER2_NAME")); v != "" {
		cfg.Player2Name = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if v := strings.TrimSpace(os.Getenv("SNAPSHOT_TTL_SEC")); v != "" {
		d, err := parseSeconds("SNAPSHOT_TTL_SEC", v)
		if err != nil {
			return nil, err
		}
		cfg.SnapshotTTL = d
	}
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}
	if cfg.Player1Name == cfg.Player2Name {
		return nil, errors.New("PLAYER1_NAME and PLAYER2_NAME must differ")
	}
	return cfg, nil
}

func parseSeconds(key, v string) (time.Duration, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return time.Duration(n) * time.Second, nil
}
