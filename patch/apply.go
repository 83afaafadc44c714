package patch

import (
	"errors"
	"fmt"

	"github.com/signadot/tony-format/go-produce/debug"
	"github.com/signadot/tony-format/go-produce/draft"
	"github.com/signadot/tony-format/go-produce/ir"
)

type applyOpts struct {
	mapSet bool
}

type ApplyOption func(*applyOpts)

// MapSet controls whether patches may descend into maps and sets. It is
// on by default.
func MapSet(v bool) ApplyOption {
	return func(o *applyOpts) { o.mapSet = v }
}

// Apply applies ps to base in order. On error it returns base along with
// the error; base is never modified.
//
// A patch at the root path replaces the whole value (add, replace) or
// clears it to nil (remove). Later patches apply to the new value.
func Apply(base *ir.Node, ps Patches, opts ...ApplyOption) (*ir.Node, error) {
	o := &applyOpts{mapSet: true}
	for _, opt := range opts {
		opt(o)
	}
	cur := base
	var s *draft.Session
	fail := func(i int, p Patch, err error) (*ir.Node, error) {
		if s != nil {
			s.Discard()
		}
		if debug.Apply() {
			debug.Logf("apply: patch %d failed: %v\n", i, err)
		}
		return base, fmt.Errorf("patch %d (%s): %w", i, p, err)
	}
	for i, p := range ps {
		if err := p.Check(); err != nil {
			return fail(i, p, err)
		}
		if debug.Apply() {
			debug.Logf("apply: %s\n", p)
		}
		if len(p.Path) == 0 {
			if s != nil {
				s.Discard()
				s = nil
			}
			if p.Op == OpRemove {
				cur = nil
			} else {
				cur = p.Value
			}
			continue
		}
		if s == nil {
			if cur == nil {
				return fail(i, p, fmt.Errorf("%w: no value", ErrPathNotFound))
			}
			var err error
			s, err = draft.Begin(cur, draft.Options{MapSet: o.mapSet})
			if err != nil {
				return fail(i, p, translate(err))
			}
		}
		if err := applyOne(s.Root(), p); err != nil {
			return fail(i, p, translate(err))
		}
	}
	if s != nil {
		res, _, err := s.Finalize()
		if err != nil {
			return base, err
		}
		cur = res
	}
	return cur, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrPathNotFound), errors.Is(err, ErrTypeMismatch):
		return err
	case errors.Is(err, draft.ErrNotFound), errors.Is(err, draft.ErrOutOfRange):
		return fmt.Errorf("%w: %w", ErrPathNotFound, err)
	case errors.Is(err, draft.ErrMapSetDisabled):
		return fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	return err
}

func applyOne(root *draft.Draft, p Patch) error {
	parent, last, _ := p.Path.Parent()
	d := root
	for i, seg := range parent {
		next, err := d.Draft(seg.Key())
		if err != nil {
			if errors.Is(err, draft.ErrStaleDraft) || errors.Is(err, draft.ErrMapSetDisabled) {
				return err
			}
			return fmt.Errorf("%w: at [%s]: %w", ErrPathNotFound, parent[:i+1], err)
		}
		d = next
	}
	key := last.Key()
	switch d.Type() {
	case ir.ObjectType, ir.MapType:
		if p.Op != OpAdd {
			if err := requireKey(d, key); err != nil {
				return err
			}
		}
		if p.Op == OpRemove {
			return d.Delete(key)
		}
		return d.Set(key, p.Value)
	case ir.ArrayType:
		i, ok := last.Int()
		if !ok {
			return fmt.Errorf("%w: field %s in array", ErrTypeMismatch, last)
		}
		switch p.Op {
		case OpAdd:
			return d.Insert(i, p.Value)
		case OpRemove:
			return d.RemoveAt(i)
		}
		if err := requireKey(d, i); err != nil {
			return err
		}
		return d.Set(i, p.Value)
	case ir.SetType:
		i, ok := last.Int()
		if !ok {
			return fmt.Errorf("%w: field %s in set", ErrTypeMismatch, last)
		}
		switch p.Op {
		case OpAdd:
			return d.Add(p.Value)
		case OpRemove:
			if p.Value == nil {
				return d.RemoveAt(i)
			}
			return removeMember(d, p)
		}
		return fmt.Errorf("%w: replace in set", ErrTypeMismatch)
	}
	return fmt.Errorf("%w: %s has no children", ErrTypeMismatch, d.Type())
}

func requireKey(d *draft.Draft, key any) error {
	ok, err := d.Has(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %v", ErrPathNotFound, key)
	}
	return nil
}

func removeMember(d *draft.Draft, p Patch) error {
	vals, err := d.Values()
	if err != nil {
		return err
	}
	for _, v := range vals {
		if ir.Equal(v, p.Value) {
			return d.Remove(p.Value)
		}
	}
	return fmt.Errorf("%w: no such member", ErrPathNotFound)
}
