package game

import (
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
)

// Variant names the state kinds. It is also the snapshot tag.
type Variant string

const (
	VariantPlayerTurn    Variant = "player_turn"
	VariantPieceSelected Variant = "piece_selected"
	VariantMoveExecuting Variant = "move_executing"
	VariantGameOver      Variant = "game_over"
)

// State is the closed set of turn phases. Only this package implements it;
// the dispatcher switches over the concrete types. A state is never changed
// after the model installs it, so accessors are safe to read until the next
// transition and must not be retained past it.
type State interface {
	// Seq is unique per installed state and grows monotonically.
	Seq() uint64
	Variant() Variant
	CurrentPlayer() checkers.PlayerID
	HighlightedPieces() []checkers.Coord
	MoveHints() []checkers.Coord
	SelectedPiece() (checkers.Coord, bool)
	Spotlight() (checkers.Coord, bool)

	sealed()
}

type base struct{ seq uint64 }

func (b base) Seq() uint64                         { return b.seq }
func (base) CurrentPlayer() checkers.PlayerID      { return checkers.NoPlayer }
func (base) HighlightedPieces() []checkers.Coord   { return nil }
func (base) MoveHints() []checkers.Coord           { return nil }
func (base) SelectedPiece() (checkers.Coord, bool) { return checkers.Coord{}, false }
func (base) Spotlight() (checkers.Coord, bool)     { return checkers.Coord{}, false }
func (base) sealed()                               {}

// turn is shared by the states in which the acting player may still choose.
// A chaining turn is restricted to the captures of the piece at chainAt.
type turn struct {
	player   checkers.PlayerID
	start    time.Duration
	legal    []checkers.Move
	chaining bool
	chainAt  checkers.Coord
}

func (t turn) TurnStart() time.Duration { return t.start }

// LegalMoves returns a copy of the moves available this turn.
func (t turn) LegalMoves() []checkers.Move { return append([]checkers.Move(nil), t.legal...) }

// Chaining reports whether the turn is a forced capture continuation.
func (t turn) Chaining() bool { return t.chaining }

// PlayerTurn waits for the acting player to pick a piece.
type PlayerTurn struct {
	base
	turn
}

func (*PlayerTurn) Variant() Variant                      { return VariantPlayerTurn }
func (s *PlayerTurn) CurrentPlayer() checkers.PlayerID    { return s.player }
func (s *PlayerTurn) HighlightedPieces() []checkers.Coord { return checkers.Origins(s.legal) }

// PieceSelected holds a picked piece and the moves it may make.
type PieceSelected struct {
	base
	turn
	piece        checkers.Coord
	destinations []checkers.Move
}

func (*PieceSelected) Variant() Variant                        { return VariantPieceSelected }
func (s *PieceSelected) CurrentPlayer() checkers.PlayerID      { return s.player }
func (s *PieceSelected) HighlightedPieces() []checkers.Coord   { return checkers.Origins(s.legal) }
func (s *PieceSelected) MoveHints() []checkers.Coord           { return checkers.Destinations(s.destinations) }
func (s *PieceSelected) SelectedPiece() (checkers.Coord, bool) { return s.piece, true }

// LegalDestinations returns the moves of the selected piece.
func (s *PieceSelected) LegalDestinations() []checkers.Move {
	return append([]checkers.Move(nil), s.destinations...)
}

// MoveExecuting is entered once a move is on the board; it waits for the
// animation of Result to finish.
type MoveExecuting struct {
	base
	player checkers.PlayerID
	start  time.Duration
	result checkers.MoveResult
}

func (*MoveExecuting) Variant() Variant                   { return VariantMoveExecuting }
func (s *MoveExecuting) CurrentPlayer() checkers.PlayerID { return s.player }
func (s *MoveExecuting) HighlightedPieces() []checkers.Coord {
	return []checkers.Coord{s.result.From()}
}
func (s *MoveExecuting) Spotlight() (checkers.Coord, bool) { return s.result.To(), true }
func (s *MoveExecuting) Result() checkers.MoveResult       { return s.result }

// GameOver is terminal.
type GameOver struct {
	base
	winner checkers.PlayerID
	reason string
}

func (*GameOver) Variant() Variant            { return VariantGameOver }
func (s *GameOver) Winner() checkers.PlayerID { return s.winner }

// Reason is "no_moves" or "forfeit".
func (s *GameOver) Reason() string { return s.reason }
