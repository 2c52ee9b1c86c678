package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitWritesJSONFile(t *testing.T) {
	defer Set(nil)
	path := filepath.Join(t.TempDir(), "nested", "checkers.log")
	if err := Init(Options{Level: "info", Format: "json", ToFile: true, FilePath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ForGame("g-1").Info("checkers_move", zap.String("move", "(2,1)-(3,2)"))
	_ = L().Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(raw)
	if !strings.Contains(line, `"game_id":"g-1"`) || !strings.Contains(line, `"msg":"checkers_move"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
}

func TestInitWithoutSinksIsNop(t *testing.T) {
	defer Set(nil)
	if err := Init(Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if L().Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected nop logger")
	}
}
