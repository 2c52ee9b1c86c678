package results

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// memrepo keeps results in memory when no database is configured.
type memrepo struct {
	mu   sync.RWMutex
	byID map[string]*Record
}

func NewMemoryRepository() Repository {
	return &memrepo{byID: make(map[string]*Record)}
}

func (m *memrepo) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return nil
	}
	if rec.ID == "" {
		return ErrMissingID
	}
	cp := *rec
	cp.Moves = append([]string(nil), rec.Moves...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[rec.ID] = &cp
	return nil
}

func (m *memrepo) Get(ctx context.Context, gameID string) (*Record, error) {
	list := m.filter(func(r *Record) bool { return r.GameID == gameID })
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

func (m *memrepo) Recent(ctx context.Context, player string, limit int) ([]*Record, error) {
	player = strings.TrimSpace(player)
	items := m.filter(func(r *Record) bool {
		return player == "" || r.Player1 == player || r.Player2 == player
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// filter returns copies of the matching records, newest first.
func (m *memrepo) filter(keep func(*Record) bool) []*Record {
	m.mu.RLock()
	items := make([]*Record, 0, len(m.byID))
	for _, rec := range m.byID {
		if keep(rec) {
			cp := *rec
			items = append(items, &cp)
		}
	}
	m.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items
}

func (m *memrepo) Close() error { return nil }
