package produce

import "errors"

var (
	ErrInvalidProducerReturn = errors.New("invalid producer return")
	ErrPatchesDisabled       = errors.New("patches disabled")
)
