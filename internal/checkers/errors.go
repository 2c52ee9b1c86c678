package checkers

import "errors"

var (
	ErrInvalidCoordinate = errors.New("coordinate outside board")
	ErrMalformedBoard    = errors.New("malformed board")
	ErrInvalidRules      = errors.New("invalid rules")
	ErrBrokenChain       = errors.New("capture chain is not continuous")
	ErrNotAPiece         = errors.New("move origin holds no piece")
)
