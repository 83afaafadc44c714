package patch

import (
	"github.com/signadot/tony-format/go-produce/debug"
	"github.com/signadot/tony-format/go-produce/draft"
	"github.com/signadot/tony-format/go-produce/ir"
)

// Recorder accumulates patches from observed changes.
type Recorder struct {
	forward Patches
	inverse Patches
}

// Observe appends the forward patch for c and the inverse which undoes
// it.
func (r *Recorder) Observe(c draft.Change) {
	fwd, inv := patchesOf(c)
	if debug.Patch() {
		debug.Logf("patch: %s / %s\n", fwd, inv)
	}
	r.forward = append(r.forward, fwd)
	r.inverse = append(r.inverse, inv)
}

// Patches returns the forward patches in mutation order and the inverse
// patches in the same order. To undo, apply inverse.Reverse().
func (r *Recorder) Patches() (forward, inverse Patches) {
	return r.forward, r.inverse
}

// Record converts a change log to forward and inverse patches.
func Record(changes []draft.Change) (forward, inverse Patches) {
	r := &Recorder{
		forward: make(Patches, 0, len(changes)),
		inverse: make(Patches, 0, len(changes)),
	}
	for _, c := range changes {
		r.Observe(c)
	}
	return r.Patches()
}

func patchesOf(c draft.Change) (fwd, inv Patch) {
	fwd.Path = c.Path
	inv.Path = c.Path
	switch c.Kind {
	case draft.Replace:
		fwd.Op, fwd.Value = OpReplace, c.New
		inv.Op, inv.Value = OpReplace, c.Old
	case draft.Add:
		fwd.Op, fwd.Value = OpAdd, c.New
		inv.Op = OpRemove
		if c.In == ir.SetType {
			inv.Value = c.New
		}
	case draft.Remove:
		fwd.Op = OpRemove
		if c.In == ir.SetType {
			fwd.Value = c.Old
		}
		inv.Op, inv.Value = OpAdd, c.Old
	}
	return fwd, inv
}
