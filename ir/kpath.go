package ir

import (
	"fmt"

	"github.com/signadot/tony-format/go-produce/ir/kpath"
)

// GetKPath navigates a tree using a kinded path string.
//
// Example:
//
//	root.GetKPath("users[0].name")
func (node *Node) GetKPath(kp string) (*Node, error) {
	p, err := kpath.Parse(kp)
	if err != nil {
		return nil, err
	}
	return node.Lookup(p)
}

// Lookup returns the node at p below node. The empty path returns node
// itself.
//
// Index and sparse index segments are interchangeable: each is resolved
// as a position in arrays and sets and as an integer key in maps, since
// the wire form of a path does not tell them apart.
func (node *Node) Lookup(p kpath.Path) (*Node, error) {
	res := node
	for i, seg := range p {
		next, err := res.Child(seg)
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", p[:i+1], err)
		}
		res = next
	}
	return res, nil
}

// Child returns the direct child of node addressed by seg.
func (node *Node) Child(seg kpath.Segment) (*Node, error) {
	if node == nil {
		return nil, ErrNoPath
	}
	if seg.Field != nil {
		if !node.Type.IsKeyed() {
			return nil, fmt.Errorf("%w: field %q in %s", ErrWrongType, *seg.Field, node.Type)
		}
		i := node.KeyIndex(FromString(*seg.Field))
		if i == -1 {
			return nil, fmt.Errorf("%w: no field %q", ErrNoPath, *seg.Field)
		}
		return node.Values[i], nil
	}
	n, ok := seg.Int()
	if !ok {
		return nil, fmt.Errorf("%w: empty segment", ErrNoPath)
	}
	switch node.Type {
	case ArrayType, SetType:
		if n < 0 || n >= len(node.Values) {
			return nil, fmt.Errorf("%w: index %d out of bounds (len %d)", ErrNoPath, n, len(node.Values))
		}
		return node.Values[n], nil
	case MapType:
		i := node.KeyIndex(FromInt(int64(n)))
		if i == -1 {
			return nil, fmt.Errorf("%w: no key %d", ErrNoPath, n)
		}
		return node.Values[i], nil
	}
	return nil, fmt.Errorf("%w: index %d in %s", ErrWrongType, n, node.Type)
}

// KeySegment returns the path segment addressing key in a container of
// type t.
func KeySegment(t Type, key *Node) kpath.Segment {
	if key.Type == NumberType && key.Int64 != nil {
		if t == MapType {
			return kpath.SparseIndex(int(*key.Int64))
		}
		return kpath.Index(int(*key.Int64))
	}
	return kpath.Field(key.String)
}
