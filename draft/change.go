package draft

import (
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/ir/kpath"
)

type Kind int

const (
	Replace Kind = iota
	Add
	Remove
)

func (k Kind) String() string {
	switch k {
	case Replace:
		return "replace"
	case Add:
		return "add"
	case Remove:
		return "remove"
	}
	return "<unknown kind>"
}

// Change is one mutation observed by a recording session.
//
// Path addresses the changed slot in the tree as it stood just before the
// mutation. Old is nil for Add and New is nil for Remove. In is the type
// of the container holding the slot.
type Change struct {
	Kind Kind
	Path kpath.Path
	Old  *ir.Node
	New  *ir.Node
	In   ir.Type
}
