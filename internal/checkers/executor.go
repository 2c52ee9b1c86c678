package checkers

import "fmt"

// MoveResult describes what a committed move changed, enough for an animation
// driver to replay it without diffing boards.
type MoveResult struct {
	Move          Move     `json:"move"`
	Mover         PlayerID `json:"mover"`
	Piece         Piece    `json:"piece"`
	CapturedPiece Piece    `json:"captured_piece"`
	Promoted      bool     `json:"promoted"`
	// Path lists every cell the piece crosses, From and To included.
	Path []Coord `json:"path"`
}

func (r MoveResult) From() Coord { return r.Move.From }
func (r MoveResult) To() Coord   { return r.Move.To }

// Captured returns the cell that was emptied by the capture, if any.
func (r MoveResult) Captured() (Coord, bool) { return r.Move.Captured, r.Move.Capture }

// Apply relocates the piece, removes the captured piece and applies promotion.
// The input board is left untouched. Apply checks occupancy but not legality;
// callers validate against the legal move set first.
func Apply(b *Board, m Move) (*Board, MoveResult, error) {
	if !b.InBounds(m.From) || !b.InBounds(m.To) {
		return b, MoveResult{}, fmt.Errorf("%w: move %s", ErrInvalidCoordinate, m)
	}
	p := b.At(m.From)
	if p.Empty() {
		return b, MoveResult{}, fmt.Errorf("%w: %s", ErrNotAPiece, m.From)
	}
	if !b.At(m.To).Empty() {
		return b, MoveResult{}, fmt.Errorf("%w: destination %s occupied", ErrMalformedBoard, m.To)
	}
	path, err := diagonalPath(m.From, m.To)
	if err != nil {
		return b, MoveResult{}, err
	}

	next := b.Clone()
	res := MoveResult{Move: m, Mover: p.Owner, Piece: p, Path: path}
	if m.Capture {
		if !b.InBounds(m.Captured) {
			return b, MoveResult{}, fmt.Errorf("%w: captured %s", ErrInvalidCoordinate, m.Captured)
		}
		victim := b.At(m.Captured)
		if victim.Empty() || victim.Owner == p.Owner {
			return b, MoveResult{}, fmt.Errorf("%w: nothing to capture at %s", ErrMalformedBoard, m.Captured)
		}
		res.CapturedPiece = victim
		next.Clear(m.Captured)
	}
	next.Clear(m.From)
	if m.Promotes && p.Kind == Regular {
		p.Kind = Queen
		res.Promoted = true
	}
	next.Put(m.To, p)
	return next, res, nil
}

func diagonalPath(from, to Coord) ([]Coord, error) {
	dx, dy := to.X-from.X, to.Y-from.Y
	if dx == 0 || abs(dx) != abs(dy) {
		return nil, fmt.Errorf("%w: %s to %s is not diagonal", ErrInvalidCoordinate, from, to)
	}
	sx, sy := dx/abs(dx), dy/abs(dy)
	path := make([]Coord, 0, abs(dx)+1)
	for c := from; ; c = c.add(sx, sy) {
		path = append(path, c)
		if c == to {
			break
		}
	}
	return path, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
