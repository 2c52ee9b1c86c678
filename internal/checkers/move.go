package checkers

import "fmt"

// Move is a single hop. Captured is meaningful only when Capture is set.
type Move struct {
	From     Coord `json:"from"`
	To       Coord `json:"to"`
	Captured Coord `json:"captured"`
	Capture  bool  `json:"capture"`
	Promotes bool  `json:"promotes"`
}

func (m Move) String() string {
	if m.Capture {
		return fmt.Sprintf("%sx%s", m.From, m.To)
	}
	return fmt.Sprintf("%s-%s", m.From, m.To)
}

// ContainsMove reports whether m is one of moves.
func ContainsMove(moves []Move, m Move) bool {
	for _, mv := range moves {
		if mv == m {
			return true
		}
	}
	return false
}

// MovesFrom filters moves to those starting at c.
func MovesFrom(moves []Move, c Coord) []Move {
	var out []Move
	for _, mv := range moves {
		if mv.From == c {
			out = append(out, mv)
		}
	}
	return out
}

// Origins lists the distinct From cells of moves in first-seen order.
func Origins(moves []Move) []Coord {
	var out []Coord
	seen := make(map[Coord]struct{}, len(moves))
	for _, mv := range moves {
		if _, ok := seen[mv.From]; ok {
			continue
		}
		seen[mv.From] = struct{}{}
		out = append(out, mv.From)
	}
	return out
}

// Destinations lists the To cells of moves.
func Destinations(moves []Move) []Coord {
	out := make([]Coord, 0, len(moves))
	for _, mv := range moves {
		out = append(out, mv.To)
	}
	return out
}

// FindMoveTo returns the move landing on c, if any.
func FindMoveTo(moves []Move, c Coord) (Move, bool) {
	for _, mv := range moves {
		if mv.To == c {
			return mv, true
		}
	}
	return Move{}, false
}

// MoveChain is the ordered list of hops made by one piece within a turn.
type MoveChain []Move

// Validate checks that every hop after the first starts where the previous
// one landed and that every hop after the first is a capture.
func (c MoveChain) Validate() error {
	for i := 1; i < len(c); i++ {
		if c[i].From != c[i-1].To {
			return fmt.Errorf("%w: hop %d starts at %s, previous landed on %s", ErrBrokenChain, i, c[i].From, c[i-1].To)
		}
		if !c[i].Capture || !c[i-1].Capture {
			return fmt.Errorf("%w: hop %d continues after a non-capturing move", ErrBrokenChain, i)
		}
	}
	return nil
}

// Extend appends m, refusing hops that would break continuity.
func (c MoveChain) Extend(m Move) (MoveChain, error) {
	next := append(append(MoveChain(nil), c...), m)
	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}

// Captures returns the cells captured along the chain.
func (c MoveChain) Captures() []Coord {
	var out []Coord
	for _, mv := range c {
		if mv.Capture {
			out = append(out, mv.Captured)
		}
	}
	return out
}
