package game

import (
	"fmt"
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
	"go.uber.org/zap"
)

// Dispatch routes one event through the state machine and reports what the
// presentation layer should reflect. Rejected selections come back as
// Unallowed notices; the only errors are invalid coordinates and invariant
// breaches.
func (m *Model) Dispatch(ev Event) ([]Notice, error) {
	switch e := ev.(type) {
	case Tick:
		return m.tick(e), nil
	case AnimationDone:
		return m.animationDone(e), nil
	case Forfeit:
		return m.forfeit(e)
	case SelectPiece:
		if err := m.checkCoord(e.At); err != nil {
			return nil, err
		}
		return m.selectPiece(e.At)
	case SelectTile:
		if err := m.checkCoord(e.At); err != nil {
			return nil, err
		}
		return m.selectTile(e.At)
	default:
		return nil, fmt.Errorf("unknown event %T", ev)
	}
}

func (m *Model) checkCoord(c checkers.Coord) error {
	if m.board.InBounds(c) {
		return nil
	}
	m.logger.Warn("checkers_invalid_coordinate",
		zap.Int("x", c.X),
		zap.Int("y", c.Y),
		zap.Int("size", m.board.Size()),
	)
	return fmt.Errorf("%w: %s", ErrInvalidCoordinate, c)
}

func (m *Model) selectPiece(at checkers.Coord) ([]Notice, error) {
	switch s := m.state.(type) {
	case *PlayerTurn:
		return m.pick(s.turn, at), nil
	case *PieceSelected:
		if at == s.piece {
			return []Notice{m.setGameState(&PlayerTurn{base: m.nextBase(), turn: s.turn})}, nil
		}
		if m.board.At(at).Owner == s.player {
			return m.pick(s.turn, at), nil
		}
		return m.selectTile(at)
	case *MoveExecuting, *GameOver:
		return nil, nil
	default:
		panic(fmt.Sprintf("unhandled state %T", s))
	}
}

// pick selects the piece at at when it has a legal move this turn.
func (m *Model) pick(t turn, at checkers.Coord) []Notice {
	moves := checkers.MovesFrom(t.legal, at)
	if len(moves) == 0 {
		return []Notice{Unallowed{At: at}}
	}
	return []Notice{m.setGameState(&PieceSelected{base: m.nextBase(), turn: t, piece: at, destinations: moves})}
}

func (m *Model) selectTile(at checkers.Coord) ([]Notice, error) {
	switch s := m.state.(type) {
	case *PieceSelected:
		mv, ok := checkers.FindMoveTo(s.destinations, at)
		if !ok {
			// drop the selection and hand back a fresh turn
			t := m.refresh(s.turn)
			return []Notice{
				Unallowed{At: at},
				m.setGameState(&PlayerTurn{base: m.nextBase(), turn: t}),
			}, nil
		}
		res, err := m.Move(mv)
		if err != nil {
			return nil, err
		}
		cur := m.state
		return []Notice{
			StateChanged{Seq: cur.Seq(), Variant: cur.Variant()},
			MoveCommitted{Seq: cur.Seq(), Result: res},
		}, nil
	case *PlayerTurn:
		return []Notice{Unallowed{At: at}}, nil
	case *MoveExecuting, *GameOver:
		return nil, nil
	default:
		panic(fmt.Sprintf("unhandled state %T", s))
	}
}

func (m *Model) animationDone(e AnimationDone) []Notice {
	s, ok := m.state.(*MoveExecuting)
	if !ok || s.seq != e.Seq {
		m.logger.Debug("checkers_stale_animation",
			zap.Uint64("seq", e.Seq),
			zap.Uint64("current", m.state.Seq()),
		)
		return nil
	}
	res := s.result
	if res.Move.Capture && !(res.Promoted && m.rules.PromotionEndsChain) {
		if cont := m.rules.ContinuationCaptures(m.board, res.To()); len(cont) > 0 {
			t := turn{player: s.player, start: m.now, legal: cont, chaining: true, chainAt: res.To()}
			return []Notice{m.setGameState(&PieceSelected{base: m.nextBase(), turn: t, piece: res.To(), destinations: cont})}
		}
	}
	return m.beginTurn(s.player.Opponent())
}

func (m *Model) tick(e Tick) []Notice {
	if e.Now < m.now {
		m.logger.Debug("checkers_clock_backwards", zap.Duration("now", m.now), zap.Duration("tick", e.Now))
		return nil
	}
	m.now = e.Now
	t, ok := m.activeTurn()
	if !ok {
		return nil
	}
	elapsed := m.now - t.start
	if elapsed < m.budget {
		return nil
	}
	id := turnID{player: t.player, start: t.start}
	if m.timeoutFired && m.timedOut == id {
		return nil
	}
	m.timeoutFired, m.timedOut = true, id
	m.logger.Info("checkers_turn_timeout",
		zap.Uint8("player", uint8(t.player)),
		zap.Duration("elapsed", elapsed),
	)
	return []Notice{TurnTimeout{Player: t.player, Elapsed: elapsed}}
}

// turnID identifies a running turn across PlayerTurn/PieceSelected
// reinstalls, which change the seq but keep the start.
type turnID struct {
	player checkers.PlayerID
	start  time.Duration
}

func (m *Model) forfeit(e Forfeit) ([]Notice, error) {
	if !e.Player.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, e.Player)
	}
	if _, over := m.state.(*GameOver); over {
		return nil, nil
	}
	return m.finish(e.Player.Opponent(), "forfeit"), nil
}
