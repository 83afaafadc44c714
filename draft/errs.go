package draft

import "errors"

var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrStaleDraft     = errors.New("stale draft")
	ErrOutOfRange     = errors.New("index out of range")
	ErrNotFound       = errors.New("key not found")
	ErrMapSetDisabled = errors.New("map and set support disabled")
	ErrNilBase        = errors.New("nil base")
	ErrNotRoot        = errors.New("not a root draft")
)
