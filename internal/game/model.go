package game

import (
	"fmt"
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
	"github.com/park285/cheese-checkers/internal/obslog"
	"go.uber.org/zap"
)

// DefaultTurnBudget is the time a player has from the start of a turn.
const DefaultTurnBudget = 300 * time.Second

type Options struct {
	Rules      checkers.Rules
	TurnBudget time.Duration
	// Start is the clock value at which the first turn begins.
	Start  time.Duration
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Rules == (checkers.Rules{}) {
		o.Rules = checkers.DefaultRules()
	}
	if o.TurnBudget <= 0 {
		o.TurnBudget = DefaultTurnBudget
	}
	if o.Logger == nil {
		o.Logger = obslog.L()
	}
	return o
}

// Model owns the board, both players and the single current state. It is not
// safe for concurrent use; callers serialise access (see session.Manager).
type Model struct {
	rules   checkers.Rules
	budget  time.Duration
	logger  *zap.Logger
	board   *checkers.Board
	players [2]*Player
	state   State
	seq     uint64
	now     time.Duration

	chain   checkers.MoveChain
	history []checkers.MoveResult

	timedOut     turnID
	timeoutFired bool
}

// NewModel sets up the opening position and installs the first PlayerTurn.
func NewModel(opts Options, name1, name2 string) (*Model, error) {
	opts = opts.withDefaults()
	if err := opts.Rules.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		rules:  opts.Rules,
		budget: opts.TurnBudget,
		logger: opts.Logger,
		players: [2]*Player{
			{ID: checkers.Player1, Name: name1},
			{ID: checkers.Player2, Name: name2},
		},
	}
	m.Reset(opts.Start)
	return m, nil
}

// Reset starts a new game on a fresh board, interrupting whatever was running.
func (m *Model) Reset(now time.Duration) []Notice {
	m.board = checkers.NewBoard(m.rules)
	m.now = now
	m.chain = nil
	m.history = nil
	m.timeoutFired = false
	for _, p := range m.players {
		p.CumulativeTime = 0
	}
	m.logger.Info("checkers_game_reset",
		zap.Int("size", m.rules.Size),
		zap.Duration("turn_budget", m.budget),
	)
	return m.beginTurn(m.rules.FirstPlayer)
}

func (m *Model) Rules() checkers.Rules     { return m.rules }
func (m *Model) TurnBudget() time.Duration { return m.budget }
func (m *Model) Now() time.Duration        { return m.now }
func (m *Model) State() State              { return m.state }
func (m *Model) Board() *checkers.Board    { return m.board.Clone() }
func (m *Model) Chain() checkers.MoveChain { return append(checkers.MoveChain(nil), m.chain...) }

// History returns every committed move in order.
func (m *Model) History() []checkers.MoveResult {
	return append([]checkers.MoveResult(nil), m.history...)
}

// Player returns a copy of the player record.
func (m *Model) Player(id checkers.PlayerID) (Player, error) {
	p := m.player(id)
	if p == nil {
		return Player{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	return *p, nil
}

func (m *Model) player(id checkers.PlayerID) *Player {
	if !id.Valid() {
		return nil
	}
	return m.players[id-1]
}

// Opponent returns the other player's record.
func (m *Model) Opponent(id checkers.PlayerID) (Player, error) {
	return m.Player(id.Opponent())
}

// ValidMoves runs the rules engine for player on the live board.
func (m *Model) ValidMoves(player checkers.PlayerID) []checkers.Move {
	return m.rules.LegalMoves(m.board, player)
}

// ValidMovesFor returns the legal moves of the piece at c.
func (m *Model) ValidMovesFor(c checkers.Coord) ([]checkers.Move, error) {
	if !m.board.InBounds(c) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinate, c)
	}
	return m.rules.LegalMovesFrom(m.board, c), nil
}

// PlayerAt returns the owner of the piece at c, NoPlayer for empty or
// out-of-bounds cells.
func (m *Model) PlayerAt(c checkers.Coord) checkers.PlayerID {
	if !m.board.InBounds(c) {
		return checkers.NoPlayer
	}
	return m.board.At(c).Owner
}

func (m *Model) IsQueen(c checkers.Coord) bool {
	return m.board.InBounds(c) && !m.board.At(c).Empty() && m.board.At(c).Kind == checkers.Queen
}

func (m *Model) IsRegular(c checkers.Coord) bool {
	return m.board.InBounds(c) && !m.board.At(c).Empty() && m.board.At(c).Kind == checkers.Regular
}

// RemainingTime is the acting player's budget left in the current turn. It is
// false outside PlayerTurn and PieceSelected.
func (m *Model) RemainingTime() (time.Duration, bool) {
	t, ok := m.activeTurn()
	if !ok {
		return 0, false
	}
	left := m.budget - (m.now - t.start)
	if left < 0 {
		left = 0
	}
	return left, true
}

func (m *Model) activeTurn() (turn, bool) {
	switch s := m.state.(type) {
	case *PlayerTurn:
		return s.turn, true
	case *PieceSelected:
		return s.turn, true
	default:
		return turn{}, false
	}
}

// Move commits mv for the acting player and installs MoveExecuting. mv must be
// in the legal set of the current state; anything else is an invariant breach
// and is reported at DPanic level.
func (m *Model) Move(mv checkers.Move) (checkers.MoveResult, error) {
	var (
		t     turn
		legal []checkers.Move
	)
	switch s := m.state.(type) {
	case *PlayerTurn:
		t, legal = s.turn, s.legal
	case *PieceSelected:
		t, legal = s.turn, s.destinations
	case *GameOver:
		return checkers.MoveResult{}, ErrGameOver
	default:
		return checkers.MoveResult{}, ErrNotYourTurn
	}
	if !checkers.ContainsMove(legal, mv) {
		m.logger.DPanic("checkers_rule_violation",
			zap.Stringer("move", mv),
			zap.Uint8("player", uint8(t.player)),
			zap.String("state", string(m.state.Variant())),
		)
		return checkers.MoveResult{}, fmt.Errorf("%w: %s", ErrRuleViolation, mv)
	}

	next, res, err := checkers.Apply(m.board, mv)
	if err != nil {
		m.logger.DPanic("checkers_apply_failed", zap.Stringer("move", mv), zap.Error(err))
		return checkers.MoveResult{}, fmt.Errorf("%w: %v", ErrRuleViolation, err)
	}
	chain, err := m.chain.Extend(mv)
	if err != nil {
		// a non-capture after a capture cannot happen: continuation sets hold captures only
		m.logger.DPanic("checkers_chain_broken", zap.Error(err))
		chain = checkers.MoveChain{mv}
	}
	m.board = next
	m.chain = chain
	m.history = append(m.history, res)
	m.player(t.player).addTime(m.now - t.start)

	m.setGameState(&MoveExecuting{base: m.nextBase(), player: t.player, start: t.start, result: res})
	m.logger.Info("checkers_move",
		zap.Uint8("player", uint8(t.player)),
		zap.Stringer("move", mv),
		zap.Bool("promoted", res.Promoted),
		zap.Int("chain_len", len(m.chain)),
	)
	return res, nil
}

func (m *Model) nextBase() base {
	m.seq++
	return base{seq: m.seq}
}

// setGameState is the only place the current state changes.
func (m *Model) setGameState(s State) Notice {
	m.state = s
	m.logger.Debug("checkers_state",
		zap.Uint64("seq", s.Seq()),
		zap.String("variant", string(s.Variant())),
		zap.Uint8("player", uint8(s.CurrentPlayer())),
	)
	return StateChanged{Seq: s.Seq(), Variant: s.Variant()}
}

// beginTurn hands the move to player, or ends the game when player is stuck.
func (m *Model) beginTurn(player checkers.PlayerID) []Notice {
	m.chain = nil
	legal := m.rules.LegalMoves(m.board, player)
	if len(legal) == 0 {
		return m.finish(player.Opponent(), "no_moves")
	}
	t := turn{player: player, start: m.now, legal: legal}
	return []Notice{m.setGameState(&PlayerTurn{base: m.nextBase(), turn: t})}
}

func (m *Model) finish(winner checkers.PlayerID, reason string) []Notice {
	changed := m.setGameState(&GameOver{base: m.nextBase(), winner: winner, reason: reason})
	fields := []zap.Field{
		zap.Uint8("winner", uint8(winner)),
		zap.String("reason", reason),
	}
	for _, p := range m.players {
		fields = append(fields, zap.Duration(fmt.Sprintf("time_p%d", p.ID), p.CumulativeTime))
	}
	m.logger.Info("checkers_game_over", fields...)
	return []Notice{changed, GameFinished{Winner: winner, Reason: reason}}
}

// refresh recomputes the legal set of t from the live board.
func (m *Model) refresh(t turn) turn {
	if t.chaining {
		t.legal = m.rules.ContinuationCaptures(m.board, t.chainAt)
	} else {
		t.legal = m.rules.LegalMoves(m.board, t.player)
	}
	return t
}
