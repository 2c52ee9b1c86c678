package results

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
	"github.com/park285/cheese-checkers/internal/game"
)

func c(x, y int) checkers.Coord { return checkers.Coord{X: x, Y: y} }

func TestNotationMergesCaptureChains(t *testing.T) {
	hops := []checkers.MoveResult{
		{Mover: checkers.Player1, Move: checkers.Move{From: c(1, 2), To: c(2, 3)}},
		{Mover: checkers.Player2, Move: checkers.Move{From: c(3, 4), To: c(1, 2), Captured: c(2, 3), Capture: true}},
		{Mover: checkers.Player2, Move: checkers.Move{From: c(1, 2), To: c(3, 0), Captured: c(2, 1), Capture: true}},
		{Mover: checkers.Player1, Move: checkers.Move{From: c(0, 1), To: c(2, 3), Captured: c(1, 2), Capture: true}},
	}
	got := Notation(8, hops)
	want := []string{"9-14", "18x9x2", "5x14"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("Notation = %v, want %v", got, want)
	}

	rec := &Record{Player1: "DIOGO", Player2: "PEDRO", Winner: checkers.Player1, Reason: "no_moves", BoardSize: 8, Moves: got}
	pdn := rec.PDN()
	for _, part := range []string{`[White "DIOGO"]`, `[Termination "no_moves"]`, `[Result "2-0"]`, "1. 9-14 18x9x2 2. 5x14 2-0"} {
		if !strings.Contains(pdn, part) {
			t.Fatalf("PDN missing %q:\n%s", part, pdn)
		}
	}
	if strings.Contains(pdn, "GameType") {
		t.Fatalf("8x8 game should not carry GameType:\n%s", pdn)
	}
}

func TestFromModel(t *testing.T) {
	m, err := game.NewModel(game.Options{}, "DIOGO", "PEDRO")
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if _, err := FromModel("g-1", m, time.Time{}, time.Time{}); !errors.Is(err, ErrNotFinished) {
		t.Fatalf("expected ErrNotFinished, got %v", err)
	}
	if _, err := m.Dispatch(game.Forfeit{Player: checkers.Player2}); err != nil {
		t.Fatalf("Forfeit: %v", err)
	}
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec, err := FromModel("g-1", m, start, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("FromModel: %v", err)
	}
	if rec.ID == "" || rec.GameID != "g-1" {
		t.Fatalf("ids not set: %+v", rec)
	}
	if rec.WinnerName() != "DIOGO" || rec.Reason != "forfeit" || rec.PDNResult() != "2-0" {
		t.Fatalf("unexpected result: %+v", rec)
	}
	if !strings.Contains(rec.PDN(), `[Date "2026.01.02"]`) {
		t.Fatalf("date header missing:\n%s", rec.PDN())
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	defer repo.Close()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := []*Record{
		{ID: "r1", GameID: "a", Player1: "DIOGO", Player2: "PEDRO", Winner: checkers.Player1, EndedAt: base},
		{ID: "r2", GameID: "b", Player1: "ANA", Player2: "PEDRO", Winner: checkers.Player2, EndedAt: base.Add(time.Hour)},
		{ID: "r3", GameID: "c", Player1: "ANA", Player2: "DIOGO", Winner: checkers.Player1, EndedAt: base.Add(2 * time.Hour)},
	}
	for _, r := range recs {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	// upsert by record id
	if err := repo.Save(ctx, &Record{ID: "r1", GameID: "a", Player1: "DIOGO", Player2: "PEDRO", Winner: checkers.Player2, EndedAt: base}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Get(ctx, "a")
	if err != nil || got.Winner != checkers.Player2 {
		t.Fatalf("Get a = %+v, %v", got, err)
	}
	if _, err := repo.Get(ctx, "zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Save(ctx, &Record{GameID: "a"}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}

	list, err := repo.Recent(ctx, "PEDRO", 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(list) != 2 || list[0].GameID != "b" || list[1].GameID != "a" {
		t.Fatalf("Recent(PEDRO) = %v", ids(list))
	}
	list, _ = repo.Recent(ctx, "", 2)
	if len(list) != 2 || list[0].GameID != "c" {
		t.Fatalf("Recent(all, 2) = %v", ids(list))
	}
}

func TestMemoryRepositoryKeepsEveryGameOfASession(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := &Record{ID: "r1", GameID: "g", Player1: "DIOGO", Player2: "PEDRO", Winner: checkers.Player2, EndedAt: base}
	second := &Record{ID: "r2", GameID: "g", Player1: "DIOGO", Player2: "PEDRO", Winner: checkers.Player1, EndedAt: base.Add(time.Minute)}
	for _, r := range []*Record{first, second} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	list, err := repo.Recent(ctx, "", 0)
	if err != nil || len(list) != 2 {
		t.Fatalf("Recent = %v, %v", ids(list), err)
	}
	got, err := repo.Get(ctx, "g")
	if err != nil || got.ID != "r2" {
		t.Fatalf("Get newest = %+v, %v", got, err)
	}
}

func ids(rs []*Record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.GameID)
	}
	return out
}
