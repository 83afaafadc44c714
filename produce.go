package produce

import (
	"fmt"

	"github.com/signadot/tony-format/go-produce/debug"
	"github.com/signadot/tony-format/go-produce/draft"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/patch"
)

// Producer runs recipes under a fixed Config. Each call uses its own draft
// session. With AutoFreeze on, results are frozen in place, including the
// subtrees they share with the base, so concurrent calls over one base
// need that base frozen first.
type Producer struct {
	cfg Config
}

// New returns a producer. Without options, results are frozen and maps,
// sets and patches are disabled.
func New(opts ...Option) *Producer {
	cfg := Config{AutoFreeze: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Producer{cfg: cfg}
}

func (p *Producer) Config() Config {
	return p.cfg
}

// Produce runs recipe over a draft of base and returns the result.
func (p *Producer) Produce(base *ir.Node, recipe Recipe) (*ir.Node, error) {
	res, _, _, err := p.run(base, recipe, false)
	return res, err
}

// ProduceWithPatches is Produce which also returns the forward and
// inverse patches of the edit.
func (p *Producer) ProduceWithPatches(base *ir.Node, recipe Recipe) (*ir.Node, patch.Patches, patch.Patches, error) {
	if !p.cfg.Patches {
		return nil, nil, nil, ErrPatchesDisabled
	}
	return p.run(base, recipe, true)
}

// Curry binds recipe into a function of the base.
func (p *Producer) Curry(recipe Recipe) func(base *ir.Node) (*ir.Node, error) {
	return func(base *ir.Node) (*ir.Node, error) {
		return p.Produce(base, recipe)
	}
}

func (p *Producer) run(base *ir.Node, recipe Recipe, record bool) (*ir.Node, patch.Patches, patch.Patches, error) {
	s, err := draft.Begin(base, draft.Options{MapSet: p.cfg.MapSet, Record: record})
	if err != nil {
		return nil, nil, nil, err
	}
	res, err := recipe(s.Root())
	if err != nil {
		s.Discard()
		return nil, nil, nil, err
	}
	return p.finish(s, res, record)
}

func (p *Producer) finish(s *draft.Session, res Result, record bool) (*ir.Node, patch.Patches, patch.Patches, error) {
	base := s.Root().Original()
	switch res.kind {
	case keepResult:
		out, changes, err := s.Finalize()
		if err != nil {
			return nil, nil, nil, err
		}
		var fwd, inv patch.Patches
		if record {
			fwd, inv = patch.Record(changes)
		}
		if debug.Produce() {
			debug.Logf("produce: %d changes, same=%t\n", len(changes), out == base)
		}
		return p.freeze(out), fwd, inv, nil

	case replaceResult:
		if res.value == nil {
			s.Discard()
			return nil, nil, nil, fmt.Errorf("%w: replace with nil, use Erase", ErrInvalidProducerReturn)
		}
		if s.Modified() {
			if !p.cfg.DiscardOnReplace {
				s.Discard()
				return nil, nil, nil, fmt.Errorf("%w: draft modified and replacement returned", ErrInvalidProducerReturn)
			}
			debug.Logf("produce: warning: discarding draft changes in favor of returned replacement\n")
		}
		s.Discard()
		var fwd, inv patch.Patches
		if record && res.value != base {
			fwd = patch.Patches{{Op: patch.OpReplace, Value: res.value}}
			inv = patch.Patches{{Op: patch.OpReplace, Value: base}}
		}
		return p.freeze(res.value), fwd, inv, nil

	case eraseResult:
		s.Discard()
		var fwd, inv patch.Patches
		if record {
			fwd = patch.Patches{{Op: patch.OpRemove}}
			inv = patch.Patches{{Op: patch.OpAdd, Value: base}}
		}
		return nil, fwd, inv, nil
	}
	s.Discard()
	return nil, nil, nil, fmt.Errorf("%w: unknown result", ErrInvalidProducerReturn)
}

func (p *Producer) freeze(n *ir.Node) *ir.Node {
	if p.cfg.AutoFreeze {
		n.Freeze()
	}
	return n
}

// CreateDraft opens a session over base and returns its root draft, to
// be finished with FinishDraft.
func (p *Producer) CreateDraft(base *ir.Node) (*draft.Draft, error) {
	s, err := draft.Begin(base, draft.Options{MapSet: p.cfg.MapSet, Record: p.cfg.Patches})
	if err != nil {
		return nil, err
	}
	return s.Root(), nil
}

// FinishDraft finalizes the session of a root draft from CreateDraft.
// If onPatches is not nil it receives the forward and inverse patches.
func (p *Producer) FinishDraft(d *draft.Draft, onPatches func(forward, inverse patch.Patches)) (*ir.Node, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil draft", draft.ErrNotRoot)
	}
	if !d.IsRoot() {
		return nil, draft.ErrNotRoot
	}
	if onPatches != nil && !p.cfg.Patches {
		return nil, ErrPatchesDisabled
	}
	s := d.Session()
	out, changes, err := s.Finalize()
	if err != nil {
		return nil, err
	}
	if onPatches != nil {
		onPatches(patch.Record(changes))
	}
	return p.freeze(out), nil
}

// ApplyPatches applies ps to base; see patch.Apply.
func (p *Producer) ApplyPatches(base *ir.Node, ps patch.Patches) (*ir.Node, error) {
	res, err := patch.Apply(base, ps, patch.MapSet(p.cfg.MapSet))
	if err != nil {
		return res, err
	}
	return p.freeze(res), nil
}

// IsDraftable reports whether a draft may be made of node.
func (p *Producer) IsDraftable(node *ir.Node) bool {
	if node == nil {
		return false
	}
	switch node.Type {
	case ir.ObjectType, ir.ArrayType:
		return true
	case ir.MapType, ir.SetType:
		return p.cfg.MapSet
	}
	return false
}

var defaultProducer = New(MapSet(true), Patches(true), AutoFreeze(true))

// Default returns the producer used by the package level functions. It
// has maps and sets, patches and auto freezing enabled.
func Default() *Producer {
	return defaultProducer
}

func Produce(base *ir.Node, recipe Recipe) (*ir.Node, error) {
	return defaultProducer.Produce(base, recipe)
}

func ProduceWithPatches(base *ir.Node, recipe Recipe) (*ir.Node, patch.Patches, patch.Patches, error) {
	return defaultProducer.ProduceWithPatches(base, recipe)
}

func Curry(recipe Recipe) func(base *ir.Node) (*ir.Node, error) {
	return defaultProducer.Curry(recipe)
}

func CreateDraft(base *ir.Node) (*draft.Draft, error) {
	return defaultProducer.CreateDraft(base)
}

func FinishDraft(d *draft.Draft, onPatches func(forward, inverse patch.Patches)) (*ir.Node, error) {
	return defaultProducer.FinishDraft(d, onPatches)
}

func ApplyPatches(base *ir.Node, ps patch.Patches) (*ir.Node, error) {
	return defaultProducer.ApplyPatches(base, ps)
}

func IsDraftable(node *ir.Node) bool {
	return defaultProducer.IsDraftable(node)
}

// Freeze freezes node and everything below it and returns node.
func Freeze(node *ir.Node) *ir.Node {
	return node.Freeze()
}
