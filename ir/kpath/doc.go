// Package kpath provides kinded paths, the addresses carried by patches.
//
// Kinded paths encode both navigation and container kind in the syntax:
//   - .field - Object field (or string map key)
//   - [index] - Array or set position
//   - {key} - Int map key
//
// # Usage
//
//	// Parse a kinded path
//	p, err := kpath.Parse("users[0].name")
//
//	// Build one
//	p = kpath.Path{kpath.Field("users"), kpath.Index(0)}.Append(kpath.Field("name"))
//
// # Wire Form
//
// A Path marshals to JSON as an array of keys: fields are strings, indices
// and int map keys are numbers, so "users[0].name" becomes ["users",0,"name"].
// The wire form does not distinguish [n] from {n}; consumers resolve
// numbers against the container they address.
//
// The JSON Pointer (RFC 6901) rendering is available with JSONPointer.
package kpath
