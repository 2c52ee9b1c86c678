package checkers

import (
	"fmt"
	"strings"
)

// PlayerID identifies a side. NoPlayer marks an empty cell.
type PlayerID uint8

const (
	NoPlayer PlayerID = 0
	Player1  PlayerID = 1
	Player2  PlayerID = 2
)

// Opponent returns the other side.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}

func (p PlayerID) Valid() bool { return p == Player1 || p == Player2 }

// Kind is the rank of a piece.
type Kind uint8

const (
	Regular Kind = iota + 1
	Queen
)

func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Queen:
		return "queen"
	default:
		return "none"
	}
}

// Piece occupies a cell. The zero value is an empty cell.
type Piece struct {
	Owner PlayerID `json:"owner"`
	Kind  Kind     `json:"kind"`
}

func (p Piece) Empty() bool { return p.Owner == NoPlayer }

// Coord addresses a cell: X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

func (c Coord) add(dx, dy int) Coord { return Coord{X: c.X + dx, Y: c.Y + dy} }

// Board is a square grid of cells. Boards are values handed out by NewBoard,
// Clone and Apply; the rules engine never mutates them.
type Board struct {
	size  int
	cells []Piece
}

// NewEmptyBoard returns a size×size board without pieces.
func NewEmptyBoard(size int) *Board {
	return &Board{size: size, cells: make([]Piece, size*size)}
}

// NewBoard returns the opening position for the given rules. Player 1 fills the
// low rows and advances toward larger Y.
func NewBoard(r Rules) *Board {
	b := NewEmptyBoard(r.Size)
	for y := 0; y < r.Size; y++ {
		for x := 0; x < r.Size; x++ {
			if !IsDark(Coord{X: x, Y: y}) {
				continue
			}
			switch {
			case y < r.PieceRows:
				b.cells[b.index(Coord{X: x, Y: y})] = Piece{Owner: Player1, Kind: Regular}
			case y >= r.Size-r.PieceRows:
				b.cells[b.index(Coord{X: x, Y: y})] = Piece{Owner: Player2, Kind: Regular}
			}
		}
	}
	return b
}

// IsDark reports whether c is a playable cell.
func IsDark(c Coord) bool { return (c.X+c.Y)%2 == 1 }

func (b *Board) Size() int { return b.size }

// InBounds reports whether c addresses a cell of b.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < b.size && c.Y < b.size
}

func (b *Board) index(c Coord) int {
	if !b.InBounds(c) {
		panic(fmt.Errorf("%w: %s on %dx%d board", ErrInvalidCoordinate, c, b.size, b.size))
	}
	return c.Y*b.size + c.X
}

// At returns the piece at c. It panics when c is outside the board.
func (b *Board) At(c Coord) Piece { return b.cells[b.index(c)] }

// Put places p at c, replacing whatever was there.
func (b *Board) Put(c Coord, p Piece) { b.cells[b.index(c)] = p }

// Clear empties the cell at c.
func (b *Board) Clear(c Coord) { b.cells[b.index(c)] = Piece{} }

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	out := &Board{size: b.size, cells: make([]Piece, len(b.cells))}
	copy(out.cells, b.cells)
	return out
}

// Pieces returns the coordinates of every piece owned by p in row-major order.
func (b *Board) Pieces(p PlayerID) []Coord {
	var out []Coord
	for i, cell := range b.cells {
		if cell.Owner == p {
			out = append(out, Coord{X: i % b.size, Y: i / b.size})
		}
	}
	return out
}

// Count returns how many pieces p owns.
func (b *Board) Count(p PlayerID) int {
	n := 0
	for _, cell := range b.cells {
		if cell.Owner == p {
			n++
		}
	}
	return n
}

// Cells exposes a row-major copy of the grid for serialisation.
func (b *Board) Cells() []Piece {
	return append([]Piece(nil), b.cells...)
}

// BoardFromCells rebuilds a board from a row-major cell list.
func BoardFromCells(size int, cells []Piece) (*Board, error) {
	if size <= 0 || len(cells) != size*size {
		return nil, fmt.Errorf("%w: %d cells for size %d", ErrMalformedBoard, len(cells), size)
	}
	for i, cell := range cells {
		if cell.Owner != NoPlayer && !cell.Owner.Valid() {
			return nil, fmt.Errorf("%w: cell %d has owner %d", ErrMalformedBoard, i, cell.Owner)
		}
		if cell.Owner != NoPlayer && cell.Kind != Regular && cell.Kind != Queen {
			return nil, fmt.Errorf("%w: cell %d has kind %d", ErrMalformedBoard, i, cell.Kind)
		}
	}
	return &Board{size: size, cells: append([]Piece(nil), cells...)}, nil
}

// String renders the board top row first: o/O for player 1, x/X for player 2.
func (b *Board) String() string {
	var sb strings.Builder
	for y := b.size - 1; y >= 0; y-- {
		for x := 0; x < b.size; x++ {
			sb.WriteByte(b.At(Coord{X: x, Y: y}).Glyph())
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Glyph is the single-character form used by String and ParseBoard.
func (p Piece) Glyph() byte {
	switch {
	case p.Owner == Player1 && p.Kind == Queen:
		return 'O'
	case p.Owner == Player1:
		return 'o'
	case p.Owner == Player2 && p.Kind == Queen:
		return 'X'
	case p.Owner == Player2:
		return 'x'
	default:
		return '.'
	}
}

// ParseBoard builds a board from rows written top row first using the glyphs
// of String. Whitespace inside rows is ignored.
func ParseBoard(rows ...string) (*Board, error) {
	n := len(rows)
	b := NewEmptyBoard(n)
	for i, row := range rows {
		row = strings.Join(strings.Fields(row), "")
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedBoard, i, len(row), n)
		}
		y := n - 1 - i
		for x := 0; x < n; x++ {
			var p Piece
			switch row[x] {
			case 'o':
				p = Piece{Owner: Player1, Kind: Regular}
			case 'O':
				p = Piece{Owner: Player1, Kind: Queen}
			case 'x':
				p = Piece{Owner: Player2, Kind: Regular}
			case 'X':
				p = Piece{Owner: Player2, Kind: Queen}
			case '.':
			default:
				return nil, fmt.Errorf("%w: unknown glyph %q", ErrMalformedBoard, row[x])
			}
			b.cells[b.index(Coord{X: x, Y: y})] = p
		}
	}
	return b, nil
}
