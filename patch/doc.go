// Package patch records, encodes and applies patches against ir.Node
// trees.
//
// A Patch is one of replace, add or remove at a kpath.Path. Record turns
// the change log of a draft session into a forward list and a parallel
// inverse list: inverse[i] undoes forward[i], so undoing a whole edit
// applies inverse.Reverse().
//
// Each path addresses the tree as it stands once the patches before it
// have been applied. Apply replays a list in order through a single draft
// session and is all or nothing: on error it returns the base untouched.
//
// # Wire form
//
//	{"op": "replace", "path": ["users", 0, "age"], "value": 33}
//
// Numbers in a path index arrays and sets and key int keyed maps. Parse
// also accepts YAML and kinded path strings such as "users[0].age".
// ToJSONPatch renders RFC 6902 documents.
package patch
