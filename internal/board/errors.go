package board

import "errors"

// ErrIllegalMove indicates a move that is not pseudo-legal for the side to move.
var ErrIllegalMove = errors.New("illegal move")
