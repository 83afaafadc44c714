package kpath

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/tony-format/go-produce/token"
)

var ErrSyntax = errors.New("kpath syntax")

// Segment is one step of a Path. Exactly one of the fields is set.
type Segment struct {
	Field       *string // Object field name or string map key
	Index       *int    // Array or set position
	SparseIndex *int    // Int map key
}

func Field(f string) Segment { return Segment{Field: &f} }
func Index(i int) Segment { return Segment{Index: &i} }
func SparseIndex(i int) Segment { return Segment{SparseIndex: &i} }

// Key returns the segment as a string or an int, suitable for draft
// accessors.
func (s Segment) Key() any {
	switch {
	case s.Field != nil:
		return *s.Field
	case s.Index != nil:
		return *s.Index
	case s.SparseIndex != nil:
		return *s.SparseIndex
	}
	return nil
}

// Int returns the integer carried by an index or sparse index segment.
func (s Segment) Int() (int, bool) {
	switch {
	case s.Index != nil:
		return *s.Index, true
	case s.SparseIndex != nil:
		return *s.SparseIndex, true
	}
	return 0, false
}

func (s Segment) IsZero() bool {
	return s.Field == nil && s.Index == nil && s.SparseIndex == nil
}

func (s Segment) Equal(o Segment) bool {
	switch {
	case s.Field != nil:
		return o.Field != nil && *s.Field == *o.Field
	case s.Index != nil:
		return o.Index != nil && *s.Index == *o.Index
	case s.SparseIndex != nil:
		return o.SparseIndex != nil && *s.SparseIndex == *o.SparseIndex
	}
	return o.IsZero()
}

// String returns the canonical string representation of this single segment.
// Examples:
//   - Field("a") → "a"
//   - Field("field name") → "'field name'" (quoted if needed)
//   - Index(0) → "[0]"
//   - SparseIndex(42) → "{42}"
func (s Segment) String() string {
	switch {
	case s.Field != nil:
		if token.KPathQuoteField(*s.Field) {
			return token.Quote(*s.Field, true)
		}
		return *s.Field
	case s.Index != nil:
		return "[" + strconv.Itoa(*s.Index) + "]"
	case s.SparseIndex != nil:
		return "{" + strconv.Itoa(*s.SparseIndex) + "}"
	}
	return ""
}

func (s Segment) MarshalJSON() ([]byte, error) {
	switch {
	case s.Field != nil:
		return json.Marshal(*s.Field)
	case s.Index != nil:
		return json.Marshal(*s.Index)
	case s.SparseIndex != nil:
		return json.Marshal(*s.SparseIndex)
	}
	return nil, fmt.Errorf("%w: empty segment", ErrSyntax)
}

func (s *Segment) UnmarshalJSON(d []byte) error {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	seg, err := SegmentOf(v)
	if err != nil {
		return err
	}
	*s = seg
	return nil
}

// SegmentOf converts a decoded wire key (string or integral number) to a
// Segment. Numbers become Index segments.
func SegmentOf(v any) (Segment, error) {
	switch x := v.(type) {
	case string:
		return Field(x), nil
	case int:
		return Index(x), nil
	case int64:
		return Index(int(x)), nil
	case uint64:
		if x > math.MaxInt32 {
			return Segment{}, fmt.Errorf("%w: index %d out of range", ErrSyntax, x)
		}
		return Index(int(x)), nil
	case float64:
		if x != math.Trunc(x) {
			return Segment{}, fmt.Errorf("%w: non integral index %v", ErrSyntax, x)
		}
		return Index(int(x)), nil
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return Segment{}, fmt.Errorf("%w: bad index %s", ErrSyntax, x)
		}
		return Index(int(i)), nil
	}
	return Segment{}, fmt.Errorf("%w: path element %v (%T) is neither a string nor an int", ErrSyntax, v, v)
}

// Path is a sequence of segments from the root. The empty Path addresses
// the root itself.
type Path []Segment

// String returns the kinded path string representation of this Path.
// Example:
//
//	Path{Field("a"), Field("b")} → "a.b"
//	Path{Field("a"), Index(0)} → "a[0]"
//	Path{Field("a"), SparseIndex(42)} → "a{42}"
func (p Path) String() string {
	buf := bytes.NewBuffer(nil)
	for i, s := range p {
		if s.Field != nil && i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(s.String())
	}
	return buf.String()
}

// Append returns a new path with segs appended; p is not modified.
func (p Path) Append(segs ...Segment) Path {
	res := make(Path, len(p), len(p)+len(segs))
	copy(res, p)
	return append(res, segs...)
}

// Parent returns the path without its last segment, and that segment.
// The root has no parent: ok is false.
func (p Path) Parent() (parent Path, last Segment, ok bool) {
	if len(p) == 0 {
		return nil, Segment{}, false
	}
	return p[:len(p)-1], p[len(p)-1], true
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (p Path) HasPrefix(o Path) bool {
	if len(o) > len(p) {
		return false
	}
	return p[:len(o)].Equal(o)
}

// Keys returns the path as wire keys.
func (p Path) Keys() []any {
	res := make([]any, len(p))
	for i, s := range p {
		res[i] = s.Key()
	}
	return res
}

// FromKeys builds a path from decoded wire keys.
func FromKeys(keys []any) (Path, error) {
	res := make(Path, 0, len(keys))
	for i, k := range keys {
		s, err := SegmentOf(k)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		res = append(res, s)
	}
	return res, nil
}

func (p Path) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Segment(p))
}

func (p *Path) UnmarshalJSON(d []byte) error {
	var segs []Segment
	if err := json.Unmarshal(d, &segs); err != nil {
		return err
	}
	*p = segs
	return nil
}

// JSONPointer renders the path as an RFC 6901 JSON Pointer.
func (p Path) JSONPointer() string {
	if len(p) == 0 {
		return ""
	}
	b := &strings.Builder{}
	esc := strings.NewReplacer("~", "~0", "/", "~1")
	for _, s := range p {
		b.WriteByte('/')
		switch {
		case s.Field != nil:
			b.WriteString(esc.Replace(*s.Field))
		default:
			i, _ := s.Int()
			b.WriteString(strconv.Itoa(i))
		}
	}
	return b.String()
}

// Parse parses a kinded path string into a Path.
//
// Kinded path syntax:
//   - "a.b" → Object accessed via ".b"
//   - "a[0]" → Array accessed via "[0]"
//   - "a{0}" → Int keyed map accessed via "{0}"
//   - "'a.b'" → quoted field containing path syntax
//
// The empty string is the root path.
func Parse(kp string) (Path, error) {
	var res Path
	frag := kp
	first := true
	for len(frag) > 0 {
		switch frag[0] {
		case '.':
			if first {
				return nil, fmt.Errorf("%w: leading '.' in %q", ErrSyntax, kp)
			}
			field, rest, err := parseField(frag[1:])
			if err != nil {
				return nil, fmt.Errorf("%w in %q", err, kp)
			}
			res = append(res, Field(field))
			frag = rest
		case '[', '{':
			closer := byte(']')
			if frag[0] == '{' {
				closer = '}'
			}
			i := strings.IndexByte(frag, closer)
			if i == -1 {
				return nil, fmt.Errorf("%w: expected %q in %q", ErrSyntax, closer, kp)
			}
			n, err := strconv.ParseUint(frag[1:i], 10, 31)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid index %q in %q", ErrSyntax, frag[1:i], kp)
			}
			if closer == ']' {
				res = append(res, Index(int(n)))
			} else {
				res = append(res, SparseIndex(int(n)))
			}
			frag = frag[i+1:]
		default:
			if !first {
				return nil, fmt.Errorf("%w: expected '.', '[', or '{' at %q in %q", ErrSyntax, frag, kp)
			}
			field, rest, err := parseField(frag)
			if err != nil {
				return nil, fmt.Errorf("%w in %q", err, kp)
			}
			res = append(res, Field(field))
			frag = rest
		}
		first = false
	}
	return res, nil
}

func MustParse(kp string) Path {
	p, err := Parse(kp)
	if err != nil {
		panic(err)
	}
	return p
}

// parseField parses an object field name from a fragment.
// It stops at '.', '[', or '{' characters.
func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("%w: expected field at end of string", ErrSyntax)
	}
	if frag[0] == '\'' || frag[0] == '"' {
		field, n, err := token.UnquotePrefix(frag)
		if err != nil {
			return "", "", fmt.Errorf("%w: invalid quoted field: %w", ErrSyntax, err)
		}
		return field, frag[n:], nil
	}
	i := strings.IndexAny(frag, ".[{")
	if i == 0 {
		return "", "", fmt.Errorf("%w: empty field", ErrSyntax)
	}
	if i == -1 {
		return frag, "", nil
	}
	return frag[:i], frag[i:], nil
}
