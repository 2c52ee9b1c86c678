package game

import (
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
)

// Player is one side of the game. CumulativeTime only grows when a move is
// committed.
type Player struct {
	ID             checkers.PlayerID `json:"id"`
	Name           string            `json:"name"`
	CumulativeTime time.Duration     `json:"cumulative_time"`
}

func (p *Player) addTime(d time.Duration) {
	if d > 0 {
		p.CumulativeTime += d
	}
}
