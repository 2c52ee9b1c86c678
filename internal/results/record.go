package results

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/park285/cheese-checkers/internal/checkers"
	"github.com/park285/cheese-checkers/internal/game"
)

var (
	ErrNotFinished = errors.New("game is not over")
	ErrNotFound    = errors.New("result not found")
	ErrMissingID   = errors.New("result has no id")
)

// Record is a finished game as stored by a Repository.
type Record struct {
	ID          string
	GameID      string
	Player1     string
	Player2     string
	Winner      checkers.PlayerID
	Reason      string
	BoardSize   int
	Moves       []string
	Player1Time time.Duration
	Player2Time time.Duration
	StartedAt   time.Time
	EndedAt     time.Time
}

// WinnerName resolves Winner to a player name.
func (r *Record) WinnerName() string {
	switch r.Winner {
	case checkers.Player1:
		return r.Player1
	case checkers.Player2:
		return r.Player2
	default:
		return ""
	}
}

// PDNResult is the PDN result token seen from player 1.
func (r *Record) PDNResult() string {
	switch r.Winner {
	case checkers.Player1:
		return "2-0"
	case checkers.Player2:
		return "0-2"
	default:
		return "*"
	}
}

// FromModel builds the record of a model sitting in GameOver.
func FromModel(gameID string, m *game.Model, startedAt, endedAt time.Time) (*Record, error) {
	over, ok := m.State().(*game.GameOver)
	if !ok {
		return nil, ErrNotFinished
	}
	p1, err := m.Player(checkers.Player1)
	if err != nil {
		return nil, err
	}
	p2, err := m.Player(checkers.Player2)
	if err != nil {
		return nil, err
	}
	size := m.Rules().Size
	return &Record{
		ID:          uuid.NewString(),
		GameID:      gameID,
		Player1:     p1.Name,
		Player2:     p2.Name,
		Winner:      over.Winner(),
		Reason:      over.Reason(),
		BoardSize:   size,
		Moves:       Notation(size, m.History()),
		Player1Time: p1.CumulativeTime,
		Player2Time: p2.CumulativeTime,
		StartedAt:   startedAt,
		EndedAt:     endedAt,
	}, nil
}

// Square numbers dark cells 1..size²/2 row by row from player 1's back row.
func Square(size int, c checkers.Coord) int {
	return c.Y*(size/2) + c.X/2 + 1
}

// Notation turns committed hops into PDN move text, merging each capture chain
// into one entry such as "9x18x27".
func Notation(size int, hops []checkers.MoveResult) []string {
	var (
		out  []string
		cur  strings.Builder
		prev *checkers.MoveResult
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := range hops {
		h := &hops[i]
		continues := prev != nil && prev.Move.Capture && h.Move.Capture &&
			h.Mover == prev.Mover && h.Move.From == prev.Move.To
		if continues {
			cur.WriteByte('x')
			cur.WriteString(strconv.Itoa(Square(size, h.Move.To)))
		} else {
			flush()
			sep := "-"
			if h.Move.Capture {
				sep = "x"
			}
			fmt.Fprintf(&cur, "%d%s%d", Square(size, h.Move.From), sep, Square(size, h.Move.To))
		}
		prev = h
	}
	flush()
	return out
}

// PDN renders the record as a PDN game text.
func (r *Record) PDN() string {
	var b strings.Builder
	date := r.EndedAt
	if date.IsZero() {
		date = time.Now()
	}
	fmt.Fprintf(&b, "[Event \"Casual\"]\n")
	fmt.Fprintf(&b, "[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day())
	fmt.Fprintf(&b, "[White \"%s\"]\n", sanitize(r.Player1))
	fmt.Fprintf(&b, "[Black \"%s\"]\n", sanitize(r.Player2))
	if r.BoardSize != checkers.DefaultSize {
		fmt.Fprintf(&b, "[GameType \"%d,%d\"]\n", r.BoardSize, r.BoardSize)
	}
	if r.Reason != "" {
		fmt.Fprintf(&b, "[Termination \"%s\"]\n", sanitize(r.Reason))
	}
	fmt.Fprintf(&b, "[Result \"%s\"]\n\n", r.PDNResult())
	for i := 0; i < len(r.Moves); i += 2 {
		fmt.Fprintf(&b, "%d. %s", i/2+1, r.Moves[i])
		if i+1 < len(r.Moves) {
			b.WriteString(" " + r.Moves[i+1])
		}
		b.WriteString(" ")
	}
	b.WriteString(r.PDNResult())
	return b.String()
}

func sanitize(s string) string {
	return strings.NewReplacer(`"`, `'`, "\n", " ", "\r", " ").Replace(strings.TrimSpace(s))
}
