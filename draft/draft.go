package draft

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/ir/kpath"
)

// Draft is a mutable view of one container node of a session's tree.
type Draft struct {
	s      *Session
	parent *Draft
	base   *ir.Node

	// overlay, valid once ready
	ready bool
	keys  []*ir.Node
	slots []slot

	modified bool
	detached bool
}

// slot holds the current value at one position, or the child draft made
// for it.
type slot struct {
	node  *ir.Node
	child *Draft
}

func (sl slot) current() *ir.Node {
	if sl.child != nil {
		return sl.child.current()
	}
	return sl.node
}

func (d *Draft) check() error {
	if d.s.done || d.detached {
		return ErrStaleDraft
	}
	return nil
}

// prepare creates the overlay from a shallow copy of the base.
func (d *Draft) prepare() {
	if d.ready {
		return
	}
	if d.base.Type.IsKeyed() {
		d.keys = slices.Clone(d.base.Fields)
	}
	d.slots = make([]slot, len(d.base.Values))
	for i, v := range d.base.Values {
		d.slots[i].node = v
	}
	d.ready = true
}

func (d *Draft) markChanged() {
	d.modified = true
	for p := d.parent; p != nil && !p.modified; p = p.parent {
		p.modified = true
	}
}

// detach invalidates d and every child draft below it.
func (d *Draft) detach() {
	d.detached = true
	for _, sl := range d.slots {
		if sl.child != nil {
			sl.child.detach()
		}
	}
}

func (d *Draft) fields() []*ir.Node {
	if d.ready {
		return d.keys
	}
	return d.base.Fields
}

func (d *Draft) size() int {
	if d.ready {
		return len(d.slots)
	}
	return len(d.base.Values)
}

func (d *Draft) valueAt(i int) *ir.Node {
	if d.ready {
		return d.slots[i].current()
	}
	return d.base.Values[i]
}

// Type returns the type of the drafted node.
func (d *Draft) Type() ir.Type {
	return d.base.Type
}

// Original returns the base node of d.
func (d *Draft) Original() *ir.Node {
	return d.base
}

// Modified reports whether d or any draft below it saw a write.
func (d *Draft) Modified() bool {
	return d.modified
}

// Parent returns the draft holding d, or nil for the root.
func (d *Draft) Parent() *Draft {
	return d.parent
}

func (d *Draft) IsRoot() bool {
	return d.parent == nil
}

func (d *Draft) Session() *Session {
	return d.s
}

func (d *Draft) Len() (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	if d.base.Type.IsLeaf() {
		return 0, nil
	}
	return d.size(), nil
}

// find resolves key to a slot position. For keyed containers a missing key
// gives -1 and no error; for arrays and sets a bad index is an error.
func (d *Draft) find(key any) (int, *ir.Node, error) {
	switch d.base.Type {
	case ir.ObjectType, ir.MapType:
		k, err := keyNode(d.base.Type, key)
		if err != nil {
			return -1, nil, err
		}
		for i, f := range d.fields() {
			if ir.Equal(f, k) {
				return i, k, nil
			}
		}
		return -1, k, nil
	case ir.ArrayType, ir.SetType:
		i, ok := toInt(key)
		if !ok {
			return -1, nil, fmt.Errorf("%w: %s index must be an int, got %T", ErrTypeMismatch, d.base.Type, key)
		}
		if i < 0 || i >= d.size() {
			return -1, nil, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, d.size())
		}
		return i, nil, nil
	}
	return -1, nil, fmt.Errorf("%w: %s has no children", ErrTypeMismatch, d.base.Type)
}

// Get returns the current value at key.
func (d *Draft) Get(key any) (*ir.Node, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	i, k, err := d.find(key)
	if err != nil {
		return nil, err
	}
	if i == -1 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ir.KeyString(k))
	}
	return d.valueAt(i), nil
}

// Has reports whether key is present. For arrays and sets it reports
// whether key is a valid index.
func (d *Draft) Has(key any) (bool, error) {
	if err := d.check(); err != nil {
		return false, err
	}
	i, _, err := d.find(key)
	if errors.Is(err, ErrOutOfRange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return i != -1, nil
}

// Keys returns object fields as strings, map keys as strings or ints, and
// array or set positions as ints.
func (d *Draft) Keys() ([]any, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if d.base.Type.IsLeaf() {
		return nil, nil
	}
	res := make([]any, d.size())
	if d.base.Type.IsKeyed() {
		for i, f := range d.fields() {
			res[i] = keyValue(f)
		}
		return res, nil
	}
	for i := range res {
		res[i] = i
	}
	return res, nil
}

// Values returns the current values of d's children.
func (d *Draft) Values() ([]*ir.Node, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	res := make([]*ir.Node, d.size())
	for i := range res {
		res[i] = d.valueAt(i)
	}
	return res, nil
}

// Draft returns the child draft at key, creating it on first use. Later
// calls with the same key return the same draft until its slot is
// overwritten or removed.
func (d *Draft) Draft(key any) (*Draft, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if d.base.Type == ir.SetType {
		return nil, fmt.Errorf("%w: set members are not draftable", ErrTypeMismatch)
	}
	i, k, err := d.find(key)
	if err != nil {
		return nil, err
	}
	if i == -1 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ir.KeyString(k))
	}
	d.prepare()
	sl := &d.slots[i]
	if sl.child != nil {
		return sl.child, nil
	}
	switch sl.node.Type {
	case ir.ObjectType, ir.ArrayType:
	case ir.MapType, ir.SetType:
		if !d.s.opts.MapSet {
			return nil, fmt.Errorf("%w: cannot draft %s", ErrMapSetDisabled, sl.node.Type)
		}
	default:
		return nil, fmt.Errorf("%w: %s is not draftable", ErrTypeMismatch, sl.node.Type)
	}
	sl.child = &Draft{s: d.s, parent: d, base: sl.node}
	return sl.child, nil
}

// Current returns a snapshot of d's value. Later writes do not affect it.
func (d *Draft) Current() (*ir.Node, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.current(), nil
}

func (d *Draft) current() *ir.Node {
	if !d.modified {
		return d.base
	}
	return d.build(true)
}

func (d *Draft) finalize() *ir.Node {
	if !d.modified {
		return d.base
	}
	return d.build(false)
}

// build makes a new node from the overlay. A snapshot copies the key
// slice since the overlay goes on changing.
func (d *Draft) build(snapshot bool) *ir.Node {
	res := &ir.Node{Type: d.base.Type}
	if d.base.Type.IsKeyed() {
		res.Fields = d.keys
		if snapshot {
			res.Fields = slices.Clone(d.keys)
		}
	}
	res.Values = make([]*ir.Node, len(d.slots))
	for i, sl := range d.slots {
		switch {
		case sl.child == nil:
			res.Values[i] = sl.node
		case snapshot:
			res.Values[i] = sl.child.current()
		default:
			res.Values[i] = sl.child.finalize()
		}
	}
	return res
}

// Path returns the path from the session root to d.
func (d *Draft) Path() (kpath.Path, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.path(), nil
}

func (d *Draft) path() kpath.Path {
	if d.parent == nil {
		return nil
	}
	p := d.parent
	for i := range p.slots {
		if p.slots[i].child == d {
			return p.path().Append(p.segment(i))
		}
	}
	panic("draft: child not found in parent")
}

// segment returns the path segment addressing slot i.
func (d *Draft) segment(i int) kpath.Segment {
	if d.base.Type.IsKeyed() {
		return ir.KeySegment(d.base.Type, d.fields()[i])
	}
	return kpath.Index(i)
}

func keyNode(t ir.Type, key any) (*ir.Node, error) {
	var k *ir.Node
	if s, ok := key.(string); ok {
		k = ir.FromString(s)
	} else if i, ok := toInt(key); ok {
		k = ir.FromInt(int64(i))
	} else {
		return nil, fmt.Errorf("%w: key %v (%T) for %s", ErrTypeMismatch, key, key, t)
	}
	if err := ir.CheckKey(t, k); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	return k, nil
}

func keyValue(k *ir.Node) any {
	if k.Type == ir.NumberType && k.Int64 != nil {
		return int(*k.Int64)
	}
	return k.String
}

func toInt(key any) (int, bool) {
	switch x := key.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		if x > math.MaxInt || x < math.MinInt {
			return 0, false
		}
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	case uint64:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	}
	return 0, false
}
