package draft

import (
	"fmt"
	"slices"

	"github.com/signadot/tony-format/go-produce/debug"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/ir/kpath"
)

// same reports whether writing b over a changes nothing.
func same(a, b *ir.Node) bool {
	if a == b {
		return true
	}
	return a.Type.IsLeaf() && b.Type.IsLeaf() && ir.Equal(a, b)
}

func (d *Draft) changed(kind Kind, seg kpath.Segment, old, nu *ir.Node) {
	d.markChanged()
	if d.s.opts.Record || debug.Draft() {
		d.s.record(Change{Kind: kind, Path: d.path().Append(seg), Old: old, New: nu, In: d.base.Type})
	}
}

func checkValues(vs []*ir.Node) error {
	for i, v := range vs {
		if v == nil {
			return fmt.Errorf("%w: nil value at %d", ErrTypeMismatch, i)
		}
	}
	return nil
}

func (d *Draft) index(key any) (int, error) {
	i, ok := toInt(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s index must be an int, got %T", ErrTypeMismatch, d.base.Type, key)
	}
	return i, nil
}

func (d *Draft) expect(op string, ts ...ir.Type) error {
	if slices.Contains(ts, d.base.Type) {
		return nil
	}
	return fmt.Errorf("%w: cannot %s %s", ErrTypeMismatch, op, d.base.Type)
}

// Set writes v at key. Setting a missing object or map key adds it;
// setting an array at its length appends.
func (d *Draft) Set(key any, v *ir.Node) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.expect("set in", ir.ObjectType, ir.MapType, ir.ArrayType); err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrTypeMismatch)
	}
	if d.base.Type == ir.ArrayType {
		i, err := d.index(key)
		if err != nil {
			return err
		}
		n := d.size()
		if i == n {
			d.insert(n, v)
			return nil
		}
		if i < 0 || i > n {
			return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, n)
		}
		d.replaceAt(i, v)
		return nil
	}
	i, k, err := d.find(key)
	if err != nil {
		return err
	}
	if i != -1 {
		d.replaceAt(i, v)
		return nil
	}
	d.prepare()
	d.keys = append(d.keys, k)
	d.slots = append(d.slots, slot{node: v})
	d.changed(Add, ir.KeySegment(d.base.Type, k), nil, v)
	return nil
}

func (d *Draft) replaceAt(i int, v *ir.Node) {
	cur := d.valueAt(i)
	if same(cur, v) {
		return
	}
	d.prepare()
	if c := d.slots[i].child; c != nil {
		c.detach()
	}
	d.slots[i] = slot{node: v}
	d.changed(Replace, d.segment(i), cur, v)
}

func (d *Draft) insert(i int, vs ...*ir.Node) {
	d.prepare()
	for j, v := range vs {
		d.slots = slices.Insert(d.slots, i+j, slot{node: v})
		d.changed(Add, kpath.Index(i+j), nil, v)
	}
}

func (d *Draft) removeAt(i int) {
	cur := d.valueAt(i)
	seg := d.segment(i)
	d.prepare()
	if c := d.slots[i].child; c != nil {
		c.detach()
	}
	d.slots = slices.Delete(d.slots, i, i+1)
	if d.base.Type.IsKeyed() {
		d.keys = slices.Delete(d.keys, i, i+1)
	}
	d.changed(Remove, seg, cur, nil)
}

// Delete removes key from an object or map, or the element at index key
// from an array. Deleting a missing key does nothing.
func (d *Draft) Delete(key any) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.expect("delete from", ir.ObjectType, ir.MapType, ir.ArrayType); err != nil {
		return err
	}
	i, _, err := d.find(key)
	if err != nil {
		return err
	}
	if i != -1 {
		d.removeAt(i)
	}
	return nil
}

// Append adds vs to the end of an array.
func (d *Draft) Append(vs ...*ir.Node) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.expect("append to", ir.ArrayType); err != nil {
		return err
	}
	if err := checkValues(vs); err != nil {
		return err
	}
	d.insert(d.size(), vs...)
	return nil
}

// Insert puts vs into an array starting at i, shifting later elements
// up. i may equal the length.
func (d *Draft) Insert(i int, vs ...*ir.Node) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.expect("insert into", ir.ArrayType); err != nil {
		return err
	}
	if err := checkValues(vs); err != nil {
		return err
	}
	if i < 0 || i > d.size() {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, d.size())
	}
	d.insert(i, vs...)
	return nil
}

// RemoveAt removes the element at i of an array or set.
func (d *Draft) RemoveAt(i int) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.expect("remove from", ir.ArrayType, ir.SetType); err != nil {
		return err
	}
	if i < 0 || i >= d.size() {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, d.size())
	}
	d.removeAt(i)
	return nil
}

// Truncate shortens an array to n elements, removing from the end.
func (d *Draft) Truncate(n int) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.expect("truncate", ir.ArrayType); err != nil {
		return err
	}
	if n < 0 || n > d.size() {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, n, d.size())
	}
	for j := d.size() - 1; j >= n; j-- {
		d.removeAt(j)
	}
	return nil
}

// Add puts v in a set unless an equal member is present.
func (d *Draft) Add(v *ir.Node) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.expect("add to", ir.SetType); err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrTypeMismatch)
	}
	if d.member(v) != -1 {
		return nil
	}
	d.insert(d.size(), v)
	return nil
}

// Remove takes the member equal to v out of a set, if there is one.
func (d *Draft) Remove(v *ir.Node) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.expect("remove from", ir.SetType); err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrTypeMismatch)
	}
	if i := d.member(v); i != -1 {
		d.removeAt(i)
	}
	return nil
}

func (d *Draft) member(v *ir.Node) int {
	for i := range d.size() {
		if ir.Equal(d.valueAt(i), v) {
			return i
		}
	}
	return -1
}

// Clear removes every child of a container, last first.
func (d *Draft) Clear() error {
	if err := d.check(); err != nil {
		return err
	}
	if d.base.Type.IsLeaf() {
		return fmt.Errorf("%w: cannot clear %s", ErrTypeMismatch, d.base.Type)
	}
	for j := d.size() - 1; j >= 0; j-- {
		d.removeAt(j)
	}
	return nil
}
