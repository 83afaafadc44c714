// Package libdiff computes patch lists which take one ir.Node tree to
// another.
//
// Objects and maps are diffed by key, sets by membership and arrays by a
// longest common subsequence over element identity, computed with
// github.com/sergi/go-diff. Array elements which differ but sit in the
// same place are diffed recursively when both are containers of the same
// type and replaced otherwise.
//
// Paths in the result follow the patch package convention: each addresses
// the tree as left by the patches before it, so Diff(a, b) applied to a
// with patch.Apply gives a tree equal to b.
package libdiff
