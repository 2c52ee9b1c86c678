package checkers

import "fmt"

// Rules configures board geometry and the optional rule variations.
type Rules struct {
	Size      int `json:"size"`
	PieceRows int `json:"piece_rows"`
	// RegularCapturesBackward lets regular pieces capture toward their own side.
	RegularCapturesBackward bool `json:"regular_captures_backward"`
	// FlyingQueens lets queens slide any distance along open diagonals.
	FlyingQueens bool `json:"flying_queens"`
	// PromotionEndsChain stops a capture chain on the move that promotes.
	PromotionEndsChain bool     `json:"promotion_ends_chain"`
	FirstPlayer        PlayerID `json:"first_player"`
}

const (
	DefaultSize      = 8
	DefaultPieceRows = 3
	minSize          = 4
	maxSize          = 16
)

// DefaultRules returns the 8×8 configuration with flying queens.
func DefaultRules() Rules {
	return Rules{
		Size:               DefaultSize,
		PieceRows:          DefaultPieceRows,
		FlyingQueens:       true,
		PromotionEndsChain: true,
		FirstPlayer:        Player1,
	}
}

func (r Rules) Validate() error {
	if r.Size < minSize || r.Size > maxSize || r.Size%2 != 0 {
		return fmt.Errorf("%w: size %d must be even and within %d..%d", ErrInvalidRules, r.Size, minSize, maxSize)
	}
	if r.PieceRows < 1 || 2*r.PieceRows >= r.Size {
		return fmt.Errorf("%w: %d piece rows leave no gap on a %d board", ErrInvalidRules, r.PieceRows, r.Size)
	}
	if !r.FirstPlayer.Valid() {
		return fmt.Errorf("%w: first player %d", ErrInvalidRules, r.FirstPlayer)
	}
	return nil
}

// forward returns the Y direction player p advances in.
func forward(p PlayerID) int {
	if p == Player2 {
		return -1
	}
	return 1
}
