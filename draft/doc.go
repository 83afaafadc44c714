// Package draft tracks edits to an immutable ir.Node tree.
//
// Begin opens a Session over a base tree and hands out a root Draft. A
// Draft reads through to its base until the first write, when it takes a
// shallow copy of its own level (keys and child references, nothing
// deeper). Descending with Draft(key) yields a child draft memoized in
// the parent's slot, so asking twice for the same child gives the same
// *Draft.
//
// Finalize builds the result bottom up. A draft which saw no write
// returns its base pointer, so every untouched subtree of the result is
// shared with the base. The base is never written to.
//
// When Options.Record is set, every write appends a Change to the
// session's log. Each Change path addresses the tree as it stood right
// before that write, so the log replays in order.
//
// After Finalize or Discard, every draft of the session returns
// ErrStaleDraft. A child draft whose slot is overwritten or removed is
// detached and also returns ErrStaleDraft.
//
// Sessions are not safe for concurrent use.
package draft
