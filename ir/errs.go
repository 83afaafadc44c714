package ir

import "errors"

var (
	ErrFrozen    = errors.New("frozen node")
	ErrWrongType = errors.New("wrong node type")
	ErrBadKey    = errors.New("bad key")
	ErrDupKey    = errors.New("duplicate key")
	ErrParse     = errors.New("parse error")
	ErrNoPath    = errors.New("path not found")
)
