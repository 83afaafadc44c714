// Package produce makes new immutable ir.Node trees by editing drafts of
// old ones.
//
// A Recipe receives a draft.Draft over the base tree and edits it as if
// it were mutable. The producer then finalizes the draft: unchanged
// subtrees of the result are the very same nodes as in the base, and
// only the nodes on the path from the root to each change are new.
//
//	next, err := produce.Produce(base, produce.Mutate(func(d *draft.Draft) error {
//	    return d.Set("age", ir.FromInt(33))
//	}))
//
// A recipe which writes nothing produces its base pointer, so
// next == base is a complete change test.
//
// ProduceWithPatches also returns the edit as forward and inverse
// patches. Applying the forward patches to the base gives the result;
// applying inverse.Reverse() to the result gives back the base.
//
// # Results
//
// A recipe returns Keep() to finalize its draft, Replace(v) to produce v
// instead, or Erase() to produce nil. Replacing after writing to the
// draft fails with ErrInvalidProducerReturn unless the producer was built
// with DiscardOnReplace.
//
// # Freezing
//
// With AutoFreeze, results are frozen with ir.Node.Freeze. Since results
// share nodes with their bases, this freezes the shared base nodes too.
// Freezing writes a flag on each node it reaches, so concurrent producers
// over one unfrozen base should freeze it first.
//
// # Drafts
//
// A draft is valid only while its producer runs. Using it afterwards
// fails with draft.ErrStaleDraft. CreateDraft and FinishDraft split a
// session over two calls.
package produce
