package game

import (
	"errors"

	"github.com/park285/cheese-checkers/internal/checkers"
)

var (
	// ErrRuleViolation means a move outside the current legal set reached Move.
	ErrRuleViolation     = errors.New("move not in legal set")
	ErrInvalidCoordinate = checkers.ErrInvalidCoordinate
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrGameOver          = errors.New("game is over")
	ErrNotYourTurn       = errors.New("no move can be committed in the current state")
	ErrBadSnapshot       = errors.New("invalid snapshot")
)
