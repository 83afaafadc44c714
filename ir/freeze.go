package ir

import "fmt"

// Freeze marks y and every node below it frozen and returns y. Subtrees
// which are already frozen are not revisited.
//
// Freeze writes to the nodes it marks; do not call it concurrently on trees
// sharing unfrozen subtrees.
func (y *Node) Freeze() *Node {
	if y == nil || y.frozen {
		return y
	}
	y.frozen = true
	for _, f := range y.Fields {
		f.Freeze()
	}
	for _, v := range y.Values {
		v.Freeze()
	}
	return y
}

func (y *Node) IsFrozen() bool {
	return y != nil && y.frozen
}

// Put adds key and val to an object or map under construction.
func (y *Node) Put(key, val *Node) error {
	if y.frozen {
		return ErrFrozen
	}
	if err := CheckKey(y.Type, key); err != nil {
		return err
	}
	if val == nil {
		return fmt.Errorf("%w: nil value for key %s", ErrWrongType, KeyString(key))
	}
	if y.KeyIndex(key) != -1 {
		return fmt.Errorf("%w: %s", ErrDupKey, KeyString(key))
	}
	y.Fields = append(y.Fields, key)
	y.Values = append(y.Values, val)
	return nil
}

// Push appends val to an array, or adds it to a set unless an equal
// member is present.
func (y *Node) Push(val *Node) error {
	if y.frozen {
		return ErrFrozen
	}
	if val == nil {
		return fmt.Errorf("%w: nil value", ErrWrongType)
	}
	switch y.Type {
	case ArrayType:
	case SetType:
		if y.SetIndex(val) != -1 {
			return nil
		}
	default:
		return fmt.Errorf("%w: cannot push to %s", ErrWrongType, y.Type)
	}
	y.Values = append(y.Values, val)
	return nil
}
