package fact

import "errors"

var (
	// ErrFactNotFound indicates the fact doesn't exist.
	ErrFactNotFound = errors.New("fact not found")
	// ErrInvalidStatus indicates a status outside the allowed set.
	ErrInvalidStatus = errors.New("invalid fact status")
)
