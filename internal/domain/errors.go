package domain

import "errors"

// Common domain errors.
var (
	ErrUnknownPattern    = errors.New("unknown pattern")
	ErrInvalidPattern    = errors.New("invalid pattern")
	ErrDegeneratePattern = errors.New("degenerate pattern")
	ErrDuplicatePattern  = errors.New("duplicate pattern")
	ErrInvalidStopRule   = errors.New("invalid stop rule")
)
