package textview

import (
	"strings"
	"testing"

	"github.com/park285/cheese-checkers/internal/checkers"
	"github.com/park285/cheese-checkers/internal/game"
	"github.com/park285/cheese-checkers/internal/msgcat"
)

func newFixture(t *testing.T) (*Formatter, *game.Model) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	m, err := game.NewModel(game.Options{}, "DIOGO", "PEDRO")
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return NewFormatter(cat), m
}

func boardRow(t *testing.T, board string, y int) string {
	t.Helper()
	for _, line := range strings.Split(board, "\n") {
		if strings.HasPrefix(line, " "+string(rune('0'+y))+" ") {
			return line
		}
	}
	t.Fatalf("row %d not found in\n%s", y, board)
	return ""
}

func cell(row string, x int) string {
	start := 3 + 3*x
	if len(row) < start+3 {
		return ""
	}
	return row[start : start+3]
}

func TestBoardMarksSelection(t *testing.T) {
	f, m := newFixture(t)
	if got := f.Status(m); got != "DIOGO to move (5:00 left)" {
		t.Fatalf("status %q", got)
	}
	board := f.Board(m)
	if got := cell(boardRow(t, board, 2), 1); got != "<o>" {
		t.Fatalf("movable piece cell %q\n%s", got, board)
	}
	if got := cell(boardRow(t, board, 1), 0); got != " o " {
		t.Fatalf("blocked piece cell %q\n%s", got, board)
	}

	if _, err := m.Dispatch(game.SelectPiece{At: checkers.Coord{X: 1, Y: 2}}); err != nil {
		t.Fatalf("SelectPiece: %v", err)
	}
	board = f.Board(m)
	if got := cell(boardRow(t, board, 2), 1); got != "[o]" {
		t.Fatalf("selected cell %q\n%s", got, board)
	}
	row3 := boardRow(t, board, 3)
	if cell(row3, 0) != " * " || cell(row3, 2) != " * " || cell(row3, 4) != " . " {
		t.Fatalf("hints wrong in %q", row3)
	}
	if got := f.Status(m); got != "DIOGO selected (1,2): (0,3) (2,3)" {
		t.Fatalf("status %q", got)
	}

	notices, err := m.Dispatch(game.SelectTile{At: checkers.Coord{X: 2, Y: 3}})
	if err != nil {
		t.Fatalf("SelectTile: %v", err)
	}
	var lines []string
	for _, n := range notices {
		if s := f.Notice(m, n); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) != 1 || lines[0] != "DIOGO: (1,2)-(2,3)" {
		t.Fatalf("notice lines %q", lines)
	}
	board = f.Board(m)
	if got := cell(boardRow(t, board, 3), 2); got != "{o}" {
		t.Fatalf("spotlight cell %q\n%s", got, board)
	}
	if got := cell(boardRow(t, board, 2), 1); got != "<.>" {
		t.Fatalf("origin cell %q\n%s", got, board)
	}
}

func TestNoticeText(t *testing.T) {
	f, m := newFixture(t)
	notices, err := m.Dispatch(game.SelectPiece{At: checkers.Coord{X: 0, Y: 0}})
	if err != nil {
		t.Fatalf("SelectPiece: %v", err)
	}
	if len(notices) != 1 || f.Notice(m, notices[0]) != "✗ nothing to do on (0,0)" {
		t.Fatalf("unallowed notices %v", notices)
	}
	if got := f.Invalid(checkers.Coord{X: 9, Y: 0}); got != "✗ (9,0) is off the board" {
		t.Fatalf("invalid %q", got)
	}
	if got := f.Notice(m, game.TurnTimeout{Player: checkers.Player2, Elapsed: 301e9}); got != "⏰ PEDRO ran out of turn time (5:01)" {
		t.Fatalf("timeout %q", got)
	}

	notices, err = m.Dispatch(game.Forfeit{Player: checkers.Player1})
	if err != nil {
		t.Fatalf("Forfeit: %v", err)
	}
	want := "Game over: PEDRO wins (forfeit)\nTime used: DIOGO 0:00 / PEDRO 0:00"
	var got string
	for _, n := range notices {
		if s := f.Notice(m, n); s != "" {
			got = s
		}
	}
	if got != want || f.Status(m) != want {
		t.Fatalf("game over text %q / %q", got, f.Status(m))
	}
	if !strings.Contains(f.Help(), "forfeit") {
		t.Fatalf("help missing forfeit: %q", f.Help())
	}
}

func TestFramePrintsGameOverOnce(t *testing.T) {
	f, m := newFixture(t)
	notices, err := m.Dispatch(game.Forfeit{Player: checkers.Player2})
	if err != nil {
		t.Fatalf("Forfeit: %v", err)
	}
	frame := f.Frame(m, notices)
	if n := strings.Count(frame, "Game over: DIOGO wins (forfeit)"); n != 1 {
		t.Fatalf("game-over text printed %d times:\n%s", n, frame)
	}
	if n := strings.Count(frame, "Time used:"); n != 1 {
		t.Fatalf("time line printed %d times:\n%s", n, frame)
	}
	if !strings.Contains(frame, boardRow(t, f.Board(m), 0)) {
		t.Fatalf("frame without board:\n%s", frame)
	}
}

func TestFrameAfterMove(t *testing.T) {
	f, m := newFixture(t)
	if _, err := m.Dispatch(game.SelectPiece{At: checkers.Coord{X: 1, Y: 2}}); err != nil {
		t.Fatalf("SelectPiece: %v", err)
	}
	notices, err := m.Dispatch(game.SelectTile{At: checkers.Coord{X: 2, Y: 3}})
	if err != nil {
		t.Fatalf("SelectTile: %v", err)
	}
	for _, n := range notices {
		if mc, ok := n.(game.MoveCommitted); ok {
			more, err := m.Dispatch(game.AnimationDone{Seq: mc.Seq})
			if err != nil {
				t.Fatalf("AnimationDone: %v", err)
			}
			notices = append(notices, more...)
		}
	}
	lines := strings.Split(f.Frame(m, notices), "\n")
	if lines[0] != "DIOGO: (1,2)-(2,3)" {
		t.Fatalf("first line %q", lines[0])
	}
	if last := lines[len(lines)-1]; !strings.HasPrefix(last, "PEDRO to move") {
		t.Fatalf("status line %q", last)
	}
	if f.Frame(m, nil) != "" {
		t.Fatalf("empty batch should render nothing")
	}
}
