package produce

import (
	"github.com/signadot/tony-format/go-produce/draft"
	"github.com/signadot/tony-format/go-produce/ir"
)

type resultKind int

const (
	keepResult resultKind = iota
	replaceResult
	eraseResult
)

// Result tells the producer what to do with a recipe's draft.
type Result struct {
	kind  resultKind
	value *ir.Node
}

// Keep finalizes the draft; it is the usual result.
func Keep() Result {
	return Result{kind: keepResult}
}

// Replace discards the draft and produces v. The draft must be
// unmodified unless the producer was built with DiscardOnReplace.
func Replace(v *ir.Node) Result {
	return Result{kind: replaceResult, value: v}
}

// Erase discards the draft and produces nil, the absent value.
func Erase() Result {
	return Result{kind: eraseResult}
}

// Recipe edits a draft and says what to produce.
type Recipe func(d *draft.Draft) (Result, error)

// Mutate adapts a function which only writes to its draft.
func Mutate(f func(d *draft.Draft) error) Recipe {
	return func(d *draft.Draft) (Result, error) {
		if err := f(d); err != nil {
			return Result{}, err
		}
		return Keep(), nil
	}
}
