package checkers

// diagonals in a fixed order so generated move lists are deterministic.
var diagonals = [4][2]int{{-1, 1}, {1, 1}, {-1, -1}, {1, -1}}

// LegalMoves returns every legal move for player. When any capture exists only
// captures are returned.
func (r Rules) LegalMoves(b *Board, player PlayerID) []Move {
	var simple, captures []Move
	for _, c := range b.Pieces(player) {
		captures = append(captures, r.capturesFrom(b, c)...)
		if len(captures) == 0 {
			simple = append(simple, r.stepsFrom(b, c)...)
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return simple
}

// LegalMovesFrom restricts LegalMoves to the piece at c. An empty cell yields
// no moves.
func (r Rules) LegalMovesFrom(b *Board, c Coord) []Move {
	p := b.At(c)
	if p.Empty() {
		return nil
	}
	return MovesFrom(r.LegalMoves(b, p.Owner), c)
}

// ContinuationCaptures returns the captures available to the piece at c, used
// after a capture lands to decide whether the chain goes on.
func (r Rules) ContinuationCaptures(b *Board, c Coord) []Move {
	if b.At(c).Empty() {
		return nil
	}
	return r.capturesFrom(b, c)
}

// HasCapture reports whether player is under the forced-capture rule.
func (r Rules) HasCapture(b *Board, player PlayerID) bool {
	for _, c := range b.Pieces(player) {
		if len(r.capturesFrom(b, c)) > 0 {
			return true
		}
	}
	return false
}

func (r Rules) stepsFrom(b *Board, from Coord) []Move {
	p := b.At(from)
	var out []Move
	for _, d := range diagonals {
		if p.Kind == Regular && d[1] != forward(p.Owner) {
			continue
		}
		for to := from.add(d[0], d[1]); b.InBounds(to) && b.At(to).Empty(); to = to.add(d[0], d[1]) {
			out = append(out, Move{From: from, To: to, Promotes: promotes(b, p, to)})
			if p.Kind == Regular || !r.FlyingQueens {
				break
			}
		}
	}
	return out
}

func (r Rules) capturesFrom(b *Board, from Coord) []Move {
	p := b.At(from)
	var out []Move
	for _, d := range diagonals {
		if p.Kind == Regular && !r.RegularCapturesBackward && d[1] != forward(p.Owner) {
			continue
		}
		over := from.add(d[0], d[1])
		if p.Kind == Queen && r.FlyingQueens {
			for b.InBounds(over) && b.At(over).Empty() {
				over = over.add(d[0], d[1])
			}
		}
		if !b.InBounds(over) {
			continue
		}
		victim := b.At(over)
		if victim.Empty() || victim.Owner == p.Owner {
			continue
		}
		land := over.add(d[0], d[1])
		if !b.InBounds(land) || !b.At(land).Empty() {
			continue
		}
		out = append(out, Move{From: from, To: land, Captured: over, Capture: true, Promotes: promotes(b, p, land)})
	}
	return out
}

func promotes(b *Board, p Piece, to Coord) bool {
	return p.Kind == Regular && to.Y == promotionRow(b, p.Owner)
}

func promotionRow(b *Board, p PlayerID) int {
	if p == Player2 {
		return 0
	}
	return b.Size() - 1
}
