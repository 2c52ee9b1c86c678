package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/park285/cheese-checkers/internal/checkers"
	"github.com/park285/cheese-checkers/internal/game"
	"github.com/park285/cheese-checkers/internal/obslog"
	"github.com/park285/cheese-checkers/internal/results"
	"github.com/park285/cheese-checkers/internal/snapshot"
	"go.uber.org/zap"
)

var (
	ErrNotInitialized = errors.New("session manager not initialized")
	ErrUnknownGame    = errors.New("unknown game")
	ErrNoStore        = errors.New("no snapshot store configured")
)

type Config struct {
	Rules      checkers.Rules
	TurnBudget time.Duration
	// Store checkpoints every game after each event. Optional.
	Store *snapshot.Store
	// Results receives finished games. Optional.
	Results results.Repository
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Manager runs any number of games side by side. Each game has its own lock;
// events for different games never wait on each other.
type Manager struct {
	cfg Config

	mu    sync.RWMutex
	games map[string]*entry
}

type entry struct {
	mu        sync.Mutex
	id        string
	model     *game.Model
	origin    time.Time
	startedAt time.Time
	recorded  bool
	logger    *zap.Logger
}

func NewManager(cfg Config) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Rules == (checkers.Rules{}) {
		cfg.Rules = checkers.DefaultRules()
	}
	return &Manager{cfg: cfg, games: make(map[string]*entry)}
}

// Close releases the optional collaborators.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	var errs []error
	if m.cfg.Store != nil {
		errs = append(errs, m.cfg.Store.Close())
	}
	if m.cfg.Results != nil {
		errs = append(errs, m.cfg.Results.Close())
	}
	return errors.Join(errs...)
}

func (m *Manager) options(gameID string) game.Options {
	return game.Options{
		Rules:      m.cfg.Rules,
		TurnBudget: m.cfg.TurnBudget,
		Logger:     obslog.ForGame(gameID),
	}
}

// Create starts a new game and returns its id.
func (m *Manager) Create(ctx context.Context, player1, player2 string) (string, error) {
	if m == nil || m.games == nil {
		return "", ErrNotInitialized
	}
	player1, player2 = strings.TrimSpace(player1), strings.TrimSpace(player2)
	if player1 == "" || player2 == "" || player1 == player2 {
		return "", fmt.Errorf("invalid participants %q and %q", player1, player2)
	}
	id := uuid.NewString()
	model, err := game.NewModel(m.options(id), player1, player2)
	if err != nil {
		return "", err
	}
	now := m.cfg.Clock()
	e := &entry{id: id, model: model, origin: now, startedAt: now, logger: obslog.ForGame(id)}

	m.mu.Lock()
	m.games[id] = e
	m.mu.Unlock()

	e.logger.Info("checkers_game_create",
		zap.String("player1", player1),
		zap.String("player2", player2),
		zap.Int("size", m.cfg.Rules.Size),
	)
	e.mu.Lock()
	defer e.mu.Unlock()
	m.checkpoint(ctx, e)
	return id, nil
}

// Resume loads a checkpointed game from the store into memory.
func (m *Manager) Resume(ctx context.Context, id string) error {
	if m == nil || m.games == nil {
		return ErrNotInitialized
	}
	if m.cfg.Store == nil {
		return ErrNoStore
	}
	snap, err := m.cfg.Store.Load(ctx, id)
	if err != nil {
		return err
	}
	model, err := game.Restore(snap, m.options(id))
	if err != nil {
		return err
	}
	now := m.cfg.Clock()
	e := &entry{
		id:        id,
		model:     model,
		origin:    now.Add(-snap.Now),
		startedAt: now.Add(-snap.Now),
		logger:    obslog.ForGame(id),
	}
	_, e.recorded = model.State().(*game.GameOver)

	m.mu.Lock()
	m.games[id] = e
	m.mu.Unlock()
	e.logger.Info("checkers_game_resume",
		zap.Uint64("seq", snap.Seq),
		zap.String("variant", string(snap.Variant)),
	)
	return nil
}

func (m *Manager) lookup(id string) (*entry, error) {
	if m == nil || m.games == nil {
		return nil, ErrNotInitialized
	}
	m.mu.RLock()
	e, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, id)
	}
	return e, nil
}

// Dispatch feeds ev to the game and checkpoints the result. A finished game is
// handed to the results repository once.
func (m *Manager) Dispatch(ctx context.Context, id string, ev game.Event) ([]game.Notice, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return m.dispatchLocked(ctx, e, ev)
}

func (m *Manager) dispatchLocked(ctx context.Context, e *entry, ev game.Event) ([]game.Notice, error) {
	notices, err := e.model.Dispatch(ev)
	if err != nil {
		return notices, err
	}
	if len(notices) == 0 {
		return nil, nil
	}
	for _, n := range notices {
		if _, done := n.(game.GameFinished); done {
			m.record(ctx, e)
		}
	}
	m.checkpoint(ctx, e)
	return notices, nil
}

// Tick advances the game clock to the wall clock.
func (m *Manager) Tick(ctx context.Context, id string) ([]game.Notice, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return m.dispatchLocked(ctx, e, game.Tick{Now: m.cfg.Clock().Sub(e.origin)})
}

// Reset starts the game over on a fresh board.
func (m *Manager) Reset(ctx context.Context, id string) ([]game.Notice, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	now := m.cfg.Clock()
	notices := e.model.Reset(now.Sub(e.origin))
	e.startedAt = now
	e.recorded = false
	for _, n := range notices {
		if _, done := n.(game.GameFinished); done {
			m.record(ctx, e)
		}
	}
	m.checkpoint(ctx, e)
	return notices, nil
}

// View runs fn with exclusive access to the model. fn must not keep it.
func (m *Manager) View(id string, fn func(*game.Model)) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.model)
	return nil
}

// End drops the game from memory and from the store.
func (m *Manager) End(ctx context.Context, id string) error {
	if _, err := m.lookup(id); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.games, id)
	m.mu.Unlock()
	if m.cfg.Store != nil {
		if err := m.cfg.Store.Delete(ctx, id); err != nil {
			return err
		}
	}
	obslog.ForGame(id).Info("checkers_game_end")
	return nil
}

// IDs lists the games held in memory.
func (m *Manager) IDs() []string {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	out := make([]string, 0, len(m.games))
	for id := range m.games {
		out = append(out, id)
	}
	m.mu.RUnlock()
	sort.Strings(out)
	return out
}

// checkpoint failures are logged; the game in memory stays authoritative.
func (m *Manager) checkpoint(ctx context.Context, e *entry) {
	if m.cfg.Store == nil {
		return
	}
	if err := m.cfg.Store.Save(ctx, e.id, e.model.Snapshot()); err != nil {
		e.logger.Warn("checkers_checkpoint_failed", zap.Error(err))
	}
}

func (m *Manager) record(ctx context.Context, e *entry) {
	if e.recorded || m.cfg.Results == nil {
		return
	}
	rec, err := results.FromModel(e.id, e.model, e.startedAt, m.cfg.Clock())
	if err != nil {
		e.logger.Warn("checkers_result_build_failed", zap.Error(err))
		return
	}
	if err := m.cfg.Results.Save(ctx, rec); err != nil {
		e.logger.Warn("checkers_result_save_failed", zap.Error(err))
		return
	}
	e.recorded = true
	e.logger.Info("checkers_result_saved",
		zap.String("result_id", rec.ID),
		zap.String("winner", rec.WinnerName()),
		zap.Int("moves", len(rec.Moves)),
	)
}
