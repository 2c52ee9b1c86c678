package textview

import (
	"fmt"
	"strings"
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
	"github.com/park285/cheese-checkers/internal/game"
	"github.com/park285/cheese-checkers/internal/msgcat"
)

// Formatter renders a game and its notices as plain text for a terminal.
type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	return &Formatter{cat: cat}
}

// Board draws the board top row first. Movable pieces are wrapped in <>, the
// selected piece in [], the piece being animated in {} and legal
// destinations show as *.
func (f *Formatter) Board(m *game.Model) string {
	b := m.Board()
	st := m.State()
	marks := make(map[checkers.Coord][2]byte)
	for _, c := range st.HighlightedPieces() {
		marks[c] = [2]byte{'<', '>'}
	}
	if c, ok := st.SelectedPiece(); ok {
		marks[c] = [2]byte{'[', ']'}
	}
	if c, ok := st.Spotlight(); ok {
		marks[c] = [2]byte{'{', '}'}
	}
	hints := make(map[checkers.Coord]bool)
	for _, c := range st.MoveHints() {
		hints[c] = true
	}

	size := b.Size()
	var sb strings.Builder
	for y := size - 1; y >= 0; y-- {
		fmt.Fprintf(&sb, "%2d ", y)
		for x := 0; x < size; x++ {
			c := checkers.Coord{X: x, Y: y}
			p := b.At(c)
			mark, marked := marks[c]
			switch {
			case marked:
				sb.WriteByte(mark[0])
				sb.WriteByte(p.Glyph())
				sb.WriteByte(mark[1])
			case hints[c]:
				sb.WriteString(" * ")
			case !checkers.IsDark(c):
				sb.WriteString("   ")
			default:
				sb.WriteByte(' ')
				sb.WriteByte(p.Glyph())
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   ")
	for x := 0; x < size; x++ {
		fmt.Fprintf(&sb, "%2d ", x)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Status is the one-line prompt for the current state.
func (f *Formatter) Status(m *game.Model) string {
	st := m.State()
	switch s := st.(type) {
	case *game.PlayerTurn:
		left, _ := m.RemainingTime()
		return f.cat.Text("turn.prompt", map[string]any{
			"Name":      f.name(m, s.CurrentPlayer()),
			"Remaining": clock(left),
		}, fmt.Sprintf("player %d to move", s.CurrentPlayer()))
	case *game.PieceSelected:
		at, _ := s.SelectedPiece()
		if s.Chaining() {
			return f.cat.Text("turn.chain", map[string]any{
				"Name": f.name(m, s.CurrentPlayer()),
				"At":   at.String(),
			}, fmt.Sprintf("keep capturing with %s", at))
		}
		return f.cat.Text("turn.selected", map[string]any{
			"Name":  f.name(m, s.CurrentPlayer()),
			"At":    at.String(),
			"Hints": coords(s.MoveHints()),
		}, fmt.Sprintf("selected %s", at))
	case *game.MoveExecuting:
		return ""
	case *game.GameOver:
		return f.gameOver(m, s.Winner(), s.Reason())
	default:
		return ""
	}
}

// Notice turns a notice into a feedback line. StateChanged has no text.
func (f *Formatter) Notice(m *game.Model, n game.Notice) string {
	switch v := n.(type) {
	case game.Unallowed:
		return f.cat.Text("feedback.unallowed", map[string]any{"At": v.At.String()}, "✗ "+v.At.String())
	case game.MoveCommitted:
		return f.cat.Text("move.committed", map[string]any{
			"Name":     f.name(m, v.Result.Mover),
			"Move":     v.Result.Move.String(),
			"Promoted": v.Result.Promoted,
		}, v.Result.Move.String())
	case game.TurnTimeout:
		return f.cat.Text("feedback.timeout", map[string]any{
			"Name":    f.name(m, v.Player),
			"Elapsed": clock(v.Elapsed),
		}, "timeout")
	case game.GameFinished:
		return f.gameOver(m, v.Winner, v.Reason)
	default:
		return ""
	}
}

// Frame renders one batch of notices and, when the state changed, the board
// and status line. A finished game's status is the game-over text already
// printed for GameFinished, so it is not repeated.
func (f *Formatter) Frame(m *game.Model, notices []game.Notice) string {
	var (
		lines    []string
		changed  bool
		finished bool
	)
	for _, n := range notices {
		switch n.(type) {
		case game.StateChanged:
			changed = true
			continue
		case game.GameFinished:
			finished = true
		}
		if s := f.Notice(m, n); s != "" {
			lines = append(lines, s)
		}
	}
	if changed {
		lines = append(lines, f.Board(m))
		if s := f.Status(m); s != "" && !finished {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

// Invalid reports a coordinate outside the board.
func (f *Formatter) Invalid(at checkers.Coord) string {
	return f.cat.Text("feedback.invalid", map[string]any{"At": at.String()}, "✗ "+at.String())
}

func (f *Formatter) Help() string {
	return f.cat.Text("help", nil, "p <x> <y> | t <x> <y> | forfeit | reset | quit")
}

func (f *Formatter) gameOver(m *game.Model, winner checkers.PlayerID, reason string) string {
	p1, _ := m.Player(checkers.Player1)
	p2, _ := m.Player(checkers.Player2)
	over := f.cat.Text("game.over", map[string]any{
		"Winner": f.name(m, winner),
		"Reason": reason,
	}, fmt.Sprintf("game over: player %d wins", winner))
	times := f.cat.Text("game.times", map[string]any{
		"P1": p1.Name, "T1": clock(p1.CumulativeTime),
		"P2": p2.Name, "T2": clock(p2.CumulativeTime),
	}, "")
	if times == "" {
		return over
	}
	return over + "\n" + times
}

func (f *Formatter) name(m *game.Model, id checkers.PlayerID) string {
	p, err := m.Player(id)
	if err != nil || p.Name == "" {
		return fmt.Sprintf("player %d", id)
	}
	return p.Name
}

func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func coords(cs []checkers.Coord) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}
