package game

import (
	"fmt"
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
	"go.uber.org/zap"
)

// Snapshot is the serialisable form of a model: board, players, clock and the
// current state with its data.
type Snapshot struct {
	// Rules the game was started under; Restore keeps playing by them.
	Rules   *checkers.Rules       `json:"rules,omitempty"`
	Size    int                   `json:"size"`
	Cells   []checkers.Piece      `json:"cells"`
	Players [2]Player             `json:"players"`
	Now     time.Duration         `json:"now"`
	Budget  time.Duration         `json:"budget"`
	Seq     uint64                `json:"seq"`
	Chain   []checkers.Move       `json:"chain,omitempty"`
	History []checkers.MoveResult `json:"history,omitempty"`

	Variant      Variant              `json:"variant"`
	Player       checkers.PlayerID    `json:"player,omitempty"`
	TurnStart    time.Duration        `json:"turn_start"`
	Legal        []checkers.Move      `json:"legal,omitempty"`
	Chaining     bool                 `json:"chaining,omitempty"`
	ChainAt      checkers.Coord       `json:"chain_at"`
	Selected     *checkers.Coord      `json:"selected,omitempty"`
	Destinations []checkers.Move      `json:"destinations,omitempty"`
	Result       *checkers.MoveResult `json:"result,omitempty"`
	Winner       checkers.PlayerID    `json:"winner,omitempty"`
	Reason       string               `json:"reason,omitempty"`

	// TimeoutFor is set once the running turn has reported its timeout.
	TimeoutFor *TimeoutMark `json:"timeout_for,omitempty"`
}

// TimeoutMark identifies the turn whose TurnTimeout was already reported.
type TimeoutMark struct {
	Player    checkers.PlayerID `json:"player"`
	TurnStart time.Duration     `json:"turn_start"`
}

// Snapshot captures the model. The returned value shares nothing with it.
func (m *Model) Snapshot() Snapshot {
	rules := m.rules
	s := Snapshot{
		Rules:   &rules,
		Size:    m.board.Size(),
		Cells:   m.board.Cells(),
		Players: [2]Player{*m.players[0], *m.players[1]},
		Now:     m.now,
		Budget:  m.budget,
		Seq:     m.seq,
		Chain:   m.Chain(),
		History: m.History(),
		Variant: m.state.Variant(),
	}
	if m.timeoutFired {
		s.TimeoutFor = &TimeoutMark{Player: m.timedOut.player, TurnStart: m.timedOut.start}
	}
	switch st := m.state.(type) {
	case *PlayerTurn:
		s.fillTurn(st.turn)
	case *PieceSelected:
		s.fillTurn(st.turn)
		at := st.piece
		s.Selected = &at
		s.Destinations = st.LegalDestinations()
	case *MoveExecuting:
		s.Player = st.player
		s.TurnStart = st.start
		res := st.result
		s.Result = &res
	case *GameOver:
		s.Winner = st.winner
		s.Reason = st.reason
	}
	return s
}

func (s *Snapshot) fillTurn(t turn) {
	s.Player = t.player
	s.TurnStart = t.start
	s.Legal = t.LegalMoves()
	s.Chaining = t.chaining
	s.ChainAt = t.chainAt
}

// Restore rebuilds a model from a snapshot. The current state keeps its
// sequence number so a pending AnimationDone still matches after a restore.
// A snapshot that carries its rules is played on by them; opts.Rules only
// applies to snapshots without. Legal moves are recomputed from the board.
func Restore(snap Snapshot, opts Options) (*Model, error) {
	opts = opts.withDefaults()
	if snap.Rules != nil {
		if *snap.Rules != opts.Rules {
			opts.Logger.Warn("checkers_restore_rules_differ",
				zap.Any("snapshot", *snap.Rules),
				zap.Any("configured", opts.Rules),
			)
		}
		opts.Rules = *snap.Rules
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	board, err := checkers.BoardFromCells(snap.Size, snap.Cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if snap.Size != opts.Rules.Size {
		return nil, fmt.Errorf("%w: board size %d, rules size %d", ErrBadSnapshot, snap.Size, opts.Rules.Size)
	}
	for i, p := range snap.Players {
		if p.ID != checkers.PlayerID(i+1) {
			return nil, fmt.Errorf("%w: player slot %d holds id %d", ErrBadSnapshot, i, p.ID)
		}
	}
	if err := checkers.MoveChain(snap.Chain).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	budget := snap.Budget
	if budget <= 0 {
		budget = opts.TurnBudget
	}
	p1, p2 := snap.Players[0], snap.Players[1]
	m := &Model{
		rules:   opts.Rules,
		budget:  budget,
		logger:  opts.Logger,
		board:   board,
		players: [2]*Player{&p1, &p2},
		now:     snap.Now,
		chain:   append(checkers.MoveChain(nil), snap.Chain...),
		history: append([]checkers.MoveResult(nil), snap.History...),
	}
	if tf := snap.TimeoutFor; tf != nil {
		m.timeoutFired = true
		m.timedOut = turnID{player: tf.Player, start: tf.TurnStart}
	}

	b := base{seq: snap.Seq}
	t := turn{
		player:   snap.Player,
		start:    snap.TurnStart,
		chaining: snap.Chaining,
		chainAt:  snap.ChainAt,
	}
	switch snap.Variant {
	case VariantPlayerTurn:
		if !t.player.Valid() {
			return nil, fmt.Errorf("%w: player turn without player", ErrBadSnapshot)
		}
		if t, err = m.restoreTurn(t); err != nil {
			return nil, err
		}
		m.state = &PlayerTurn{base: b, turn: t}
	case VariantPieceSelected:
		if !t.player.Valid() || snap.Selected == nil {
			return nil, fmt.Errorf("%w: selection without player or piece", ErrBadSnapshot)
		}
		if t, err = m.restoreTurn(t); err != nil {
			return nil, err
		}
		dests := checkers.MovesFrom(t.legal, *snap.Selected)
		if len(dests) == 0 {
			return nil, fmt.Errorf("%w: selected %s has no legal move", ErrBadSnapshot, *snap.Selected)
		}
		for _, mv := range snap.Destinations {
			if !checkers.ContainsMove(dests, mv) {
				return nil, fmt.Errorf("%w: destination %s is not legal", ErrBadSnapshot, mv)
			}
		}
		m.state = &PieceSelected{base: b, turn: t, piece: *snap.Selected, destinations: dests}
	case VariantMoveExecuting:
		if !snap.Player.Valid() || snap.Result == nil {
			return nil, fmt.Errorf("%w: move without player or result", ErrBadSnapshot)
		}
		m.state = &MoveExecuting{base: b, player: snap.Player, start: snap.TurnStart, result: *snap.Result}
	case VariantGameOver:
		m.state = &GameOver{base: b, winner: snap.Winner, reason: snap.Reason}
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", ErrBadSnapshot, snap.Variant)
	}
	m.seq = snap.Seq
	return m, nil
}

// restoreTurn recomputes the legal set of a saved turn from the live board.
func (m *Model) restoreTurn(t turn) (turn, error) {
	if t.chaining && (!m.board.InBounds(t.chainAt) || m.board.At(t.chainAt).Owner != t.player) {
		return t, fmt.Errorf("%w: chain piece %s is not %d's", ErrBadSnapshot, t.chainAt, t.player)
	}
	t = m.refresh(t)
	if len(t.legal) == 0 {
		return t, fmt.Errorf("%w: player %d has no legal move", ErrBadSnapshot, t.player)
	}
	return t, nil
}
