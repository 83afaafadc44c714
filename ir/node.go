package ir

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Node is one value of an immutable value tree. Nodes hold no reference
// to a parent, so a subtree may be shared by any number of trees.
type Node struct {
	Type   Type
	Fields []*Node
	Values []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64

	frozen bool
}

// Clone returns a deep, unfrozen copy of y.
func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := &Node{
		Type:   y.Type,
		String: y.String,
		Bool:   y.Bool,
		Number: y.Number,
	}
	if y.Float64 != nil {
		f := *y.Float64
		res.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		res.Int64 = &i
	}
	if y.Fields != nil {
		res.Fields = make([]*Node, len(y.Fields))
		for i, f := range y.Fields {
			res.Fields[i] = f.Clone()
		}
	}
	if y.Values != nil {
		res.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			res.Values[i] = v.Clone()
		}
	}
	return res
}

// ShallowCopy returns a copy of y whose Fields and Values slices are
// fresh but whose children are shared with y.
func (y *Node) ShallowCopy() *Node {
	res := &Node{
		Type:    y.Type,
		String:  y.String,
		Bool:    y.Bool,
		Number:  y.Number,
		Float64: y.Float64,
		Int64:   y.Int64,
	}
	if y.Fields != nil {
		res.Fields = slices.Clone(y.Fields)
	}
	if y.Values != nil {
		res.Values = slices.Clone(y.Values)
	}
	return res
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

// FromNumber holds a number literal which fits neither int64 nor float64.
func FromNumber(v string) *Node {
	return &Node{Type: NumberType, Number: v}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

// FromMap builds an object whose fields are the keys of yMap in sorted
// order.
func FromMap(yMap map[string]*Node) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]*Node, len(yMap))
	res.Values = make([]*Node, len(yMap))
	keys := slices.Sorted(maps.Keys(yMap))
	for i, key := range keys {
		res.Fields[i] = FromString(key)
		res.Values[i] = yMap[key]
	}
	return res
}

// ToMap returns the fields of an object or string keyed map.
func ToMap(node *Node) map[string]*Node {
	if !node.Type.IsKeyed() {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i, field := range node.Fields {
		if field.Type != StringType {
			continue
		}
		res[field.String] = node.Values[i]
	}
	return res
}

type KeyVal struct {
	Key *Node
	Val *Node
}

// FromKeyVals builds an object preserving the order of kvs. Keys must be
// strings and appear once.
func FromKeyVals(kvs []KeyVal) (*Node, error) {
	return fromKeyVals(ObjectType, kvs)
}

// MustKeyVals is FromKeyVals which panics on error.
func MustKeyVals(kvs ...KeyVal) *Node {
	res, err := FromKeyVals(kvs)
	if err != nil {
		panic(err)
	}
	return res
}

// NewMap builds a map preserving the order of kvs. Keys must be strings or
// integers and appear once.
func NewMap(kvs []KeyVal) (*Node, error) {
	return fromKeyVals(MapType, kvs)
}

func fromKeyVals(t Type, kvs []KeyVal) (*Node, error) {
	res := &Node{Type: t}
	res.Fields = make([]*Node, 0, len(kvs))
	res.Values = make([]*Node, 0, len(kvs))
	for _, kv := range kvs {
		if err := res.Put(kv.Key, kv.Val); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// FromIntKeysMap builds a map keyed by integers in ascending key order.
func FromIntKeysMap(yMap map[int64]*Node) *Node {
	res := &Node{Type: MapType}
	keys := slices.Sorted(maps.Keys(yMap))
	res.Fields = make([]*Node, len(keys))
	res.Values = make([]*Node, len(keys))
	for i, key := range keys {
		res.Fields[i] = FromInt(key)
		res.Values[i] = yMap[key]
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	return &Node{
		Type:   ArrayType,
		Values: slices.Clone(ySlice),
	}
}

// NewSet builds a set from vals, dropping repeated members.
func NewSet(vals ...*Node) *Node {
	res := &Node{Type: SetType, Values: make([]*Node, 0, len(vals))}
	for _, v := range vals {
		if res.SetIndex(v) == -1 {
			res.Values = append(res.Values, v)
		}
	}
	return res
}

// Get returns the value of field in an object or map, or nil.
func Get(y *Node, field string) *Node {
	i := y.KeyIndex(FromString(field))
	if i == -1 {
		return nil
	}
	return y.Values[i]
}

// KeyIndex returns the position of key in an object or map, or -1.
func (y *Node) KeyIndex(key *Node) int {
	if !y.Type.IsKeyed() {
		return -1
	}
	for i, f := range y.Fields {
		if keyEqual(f, key) {
			return i
		}
	}
	return -1
}

// SetIndex returns the position of a member equal to v in a set, or -1.
func (y *Node) SetIndex(v *Node) int {
	for i, m := range y.Values {
		if Equal(m, v) {
			return i
		}
	}
	return -1
}

func keyEqual(a, b *Node) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case StringType:
		return a.String == b.String
	case NumberType:
		return a.Int64 != nil && b.Int64 != nil && *a.Int64 == *b.Int64
	}
	return false
}

// CheckKey reports whether key may key a container of type t.
func CheckKey(t Type, key *Node) error {
	if key == nil {
		return fmt.Errorf("%w: nil key", ErrBadKey)
	}
	switch t {
	case ObjectType:
		if key.Type != StringType {
			return fmt.Errorf("%w: object keys are strings, got %s", ErrBadKey, key.Type)
		}
	case MapType:
		if key.Type == StringType || (key.Type == NumberType && key.Int64 != nil) {
			return nil
		}
		return fmt.Errorf("%w: map keys are strings or integers, got %s", ErrBadKey, key.Type)
	default:
		return fmt.Errorf("%w: %s has no keys", ErrWrongType, t)
	}
	return nil
}

// KeyString renders a key node for messages.
func KeyString(key *Node) string {
	if key == nil {
		return "<nil>"
	}
	switch key.Type {
	case StringType:
		return strconv.Quote(key.String)
	case NumberType:
		if key.Int64 != nil {
			return strconv.FormatInt(*key.Int64, 10)
		}
	}
	return "<" + key.Type.String() + ">"
}

// Len returns the number of children of a container, or 0 for a leaf.
func (y *Node) Len() int {
	if y.Type.IsLeaf() {
		return 0
	}
	return len(y.Values)
}

// Visit calls f on y and, if f returns true, on y's values, then calls f
// again with isPost set.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}
