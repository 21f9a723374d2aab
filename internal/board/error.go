package board

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid board config")
	ErrOutOfBounds   = errors.New("cell out of bounds")
)
