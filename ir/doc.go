// Package ir provides the value tree shared by drafts, patches and the
// producer.
//
// # Overview
//
// A Node is a recursive tagged union: which fields are meaningful depends
// on Type. Nodes hold no reference to their parent, so a subtree may be
// referenced from any number of trees at once. This is what lets a
// produced tree share every unchanged subtree with its base.
//
// # Node Types
//
//   - NullType, BoolType, NumberType, StringType: leaves
//   - ObjectType: Fields[i] (a string) keys Values[i]
//   - MapType: like an object, but keys may be strings or integers
//   - ArrayType: ordered Values
//   - SetType: Values holding no two Equal members
//
// Numbers hold an Int64 when the value is integral and fits, a Float64
// otherwise, and fall back to the Number literal.
//
// # Equality
//
// Equal and Compare look through structure. Arrays compare in order;
// objects, maps and sets compare as unordered collections. Hash agrees
// with Equal.
//
// # Freezing
//
// Freeze marks a tree immutable. Frozen nodes reject Put and Push. Trees
// returned by a producer may be frozen, and freezing stops at subtrees
// already frozen, so refreezing a mostly shared tree is cheap.
//
// # Encodings
//
// MarshalJSON and FromJSON use plain JSON, keeping object field order.
// ToIRJSON and FromIRJSON use a structural form which records types.
package ir
