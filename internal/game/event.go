package game

import (
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
)

// Event is any input the dispatcher consumes: user selections, clock ticks and
// animation completion all go through Model.Dispatch.
type Event interface{ event() }

type SelectPiece struct{ At checkers.Coord }

type SelectTile struct{ At checkers.Coord }

// AnimationDone reports that the animation of the MoveExecuting state with
// sequence Seq has finished.
type AnimationDone struct{ Seq uint64 }

// Tick advances the clock. Now is measured from the same origin as
// Options.Start and must not decrease.
type Tick struct{ Now time.Duration }

// Forfeit ends the game in favour of the opponent of Player.
type Forfeit struct{ Player checkers.PlayerID }

func (SelectPiece) event()   {}
func (SelectTile) event()    {}
func (AnimationDone) event() {}
func (Tick) event()          {}
func (Forfeit) event()       {}

// Notice is output for the presentation layer.
type Notice interface{ notice() }

// Unallowed marks a rejected selection.
type Unallowed struct{ At checkers.Coord }

// MoveCommitted carries the result to animate. Seq identifies the
// MoveExecuting state to echo back in AnimationDone.
type MoveCommitted struct {
	Seq    uint64
	Result checkers.MoveResult
}

type StateChanged struct {
	Seq     uint64
	Variant Variant
}

// TurnTimeout is reported once per turn when the budget runs out. The game
// carries on; ending it is the caller's decision.
type TurnTimeout struct {
	Player  checkers.PlayerID
	Elapsed time.Duration
}

type GameFinished struct {
	Winner checkers.PlayerID
	Reason string
}

func (Unallowed) notice()     {}
func (MoveCommitted) notice() {}
func (StateChanged) notice()  {}
func (TurnTimeout) notice()   {}
func (GameFinished) notice()  {}
