package patch

import (
	"errors"

	"github.com/signadot/tony-format/go-produce/draft"
)

var (
	ErrPathNotFound = errors.New("path not found")
	ErrBadPatch     = errors.New("bad patch")

	// ErrTypeMismatch is draft.ErrTypeMismatch, so errors from either
	// package match it.
	ErrTypeMismatch = draft.ErrTypeMismatch
)
