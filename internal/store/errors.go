package store

import "errors"

// ErrInvalidArgument indicates a caller passed a value the store refuses,
// e.g. a nil message.
var ErrInvalidArgument = errors.New("invalid argument")
