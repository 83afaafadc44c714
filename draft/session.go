package draft

import (
	"fmt"

	"github.com/signadot/tony-format/go-produce/debug"
	"github.com/signadot/tony-format/go-produce/ir"
)

type Options struct {
	// MapSet allows drafting maps and sets.
	MapSet bool
	// Record keeps a Change for every write.
	Record bool
}

type Session struct {
	opts    Options
	root    *Draft
	changes []Change
	done    bool
}

// Begin opens a session over base.
func Begin(base *ir.Node, opts Options) (*Session, error) {
	if base == nil {
		return nil, ErrNilBase
	}
	if !opts.MapSet && (base.Type == ir.MapType || base.Type == ir.SetType) {
		return nil, fmt.Errorf("%w: cannot draft %s", ErrMapSetDisabled, base.Type)
	}
	s := &Session{opts: opts}
	s.root = &Draft{s: s, base: base}
	if debug.Draft() {
		debug.Logf("draft: begin %s record=%t\n", base.Type, opts.Record)
	}
	return s, nil
}

func (s *Session) Root() *Draft {
	return s.root
}

func (s *Session) Options() Options {
	return s.opts
}

// Done reports whether the session was finalized or discarded.
func (s *Session) Done() bool {
	return s.done
}

// Modified reports whether any draft of the session saw a write.
func (s *Session) Modified() bool {
	return s.root.modified
}

// Changes returns the changes recorded so far.
func (s *Session) Changes() []Change {
	return s.changes
}

// Finalize ends the session and returns the resulting tree with the
// recorded changes. An unmodified session returns its base pointer.
func (s *Session) Finalize() (*ir.Node, []Change, error) {
	if s.done {
		return nil, nil, ErrStaleDraft
	}
	res := s.root.finalize()
	s.done = true
	if debug.Finalize() {
		debug.Logf("finalize: modified=%t shared=%t changes=%d\n", s.root.modified, res == s.root.base, len(s.changes))
	}
	return res, s.changes, nil
}

// Discard ends the session without building a result.
func (s *Session) Discard() {
	s.done = true
	s.changes = nil
}

func (s *Session) record(c Change) {
	if debug.Draft() {
		debug.Logf("draft: %s %s %s -> %s\n", c.Kind, c.Path, c.Old, c.New)
	}
	if !s.opts.Record {
		return
	}
	s.changes = append(s.changes, c)
}
