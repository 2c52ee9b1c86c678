package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/cheese-checkers/internal/game"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

var ErrNotFound = errors.New("snapshot not found")

// record is what lives under ck:game:<id>.
type record struct {
	GameID  string        `json:"game_id"`
	SavedAt time.Time     `json:"saved_at"`
	Seq     uint64        `json:"seq"`
	Game    game.Snapshot `json:"game"`
}

// Store keeps the latest checkpoint of every running game in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Dial connects to redisURL and checks the server with PING.
func Dial(ctx context.Context, redisURL string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewStore(rdb, ttl), nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *Store) keyGame(id string) string { return "ck:game:" + strings.TrimSpace(id) }
func (s *Store) keyIndex() string         { return "ck:games" }

// Save writes snap unless a checkpoint with a higher state seq is already
// stored, so an out-of-order writer never rolls a game back.
func (s *Store) Save(ctx context.Context, gameID string, snap game.Snapshot) error {
	if strings.TrimSpace(gameID) == "" {
		return fmt.Errorf("empty game id")
	}
	key := s.keyGame(gameID)
	raw, err := json.Marshal(record{GameID: gameID, SavedAt: time.Now().UTC(), Seq: snap.Seq, Game: snap})
	if err != nil {
		return err
	}
	return s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		prev, err := tx.Get(ctx, key).Bytes()
		if err != nil && err != redis.Nil {
			return err
		}
		if err == nil {
			var cur record
			if jerr := json.Unmarshal(prev, &cur); jerr == nil && cur.Seq > snap.Seq {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, s.ttl)
			pipe.SAdd(ctx, s.keyIndex(), gameID)
			pipe.Expire(ctx, s.keyIndex(), s.ttl)
			return nil
		})
		return err
	}, key)
}

// Load returns the stored snapshot of gameID.
func (s *Store) Load(ctx context.Context, gameID string) (game.Snapshot, error) {
	raw, err := s.rdb.Get(ctx, s.keyGame(gameID)).Bytes()
	if err == redis.Nil {
		return game.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return game.Snapshot{}, err
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", gameID, err)
	}
	return rec.Game, nil
}

func (s *Store) Delete(ctx context.Context, gameID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, s.keyGame(gameID))
	pipe.SRem(ctx, s.keyIndex(), gameID)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns the ids of games with a live checkpoint. Expired entries are
// pruned from the index on the way.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, s.keyIndex()).Result()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, id := range ids {
		n, err := s.rdb.Exists(ctx, s.keyGame(id)).Result()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			_ = s.rdb.SRem(ctx, s.keyIndex(), id).Err()
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
