package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse  = errors.New("parse error")
	ErrMixKey = fmt.Errorf("%w: mapping mixes key kinds", ErrParse)
)
