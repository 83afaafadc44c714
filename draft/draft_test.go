package draft

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tony-format/go-produce/encode"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/ir/kpath"
)

func node(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func begin(t *testing.T, base *ir.Node) *Session {
	t.Helper()
	s, err := Begin(base, Options{MapSet: true, Record: true})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func finalize(t *testing.T, s *Session) (*ir.Node, []Change) {
	t.Helper()
	res, changes, err := s.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	return res, changes
}

type change struct {
	Kind string
	Path string
	Old  string
	New  string
}

func summarize(cs []Change) []change {
	res := []change{}
	for _, c := range cs {
		x := change{Kind: c.Kind.String(), Path: c.Path.String()}
		if c.Old != nil {
			x.Old = encode.MustString(c.Old)
		}
		if c.New != nil {
			x.New = encode.MustString(c.New)
		}
		res = append(res, x)
	}
	return res
}

func TestBegin(t *testing.T) {
	if _, err := Begin(nil, Options{}); !errors.Is(err, ErrNilBase) {
		t.Errorf("expected ErrNilBase, got %v", err)
	}
	if _, err := Begin(ir.NewSet(), Options{}); !errors.Is(err, ErrMapSetDisabled) {
		t.Errorf("expected ErrMapSetDisabled, got %v", err)
	}
	if _, err := Begin(ir.NewSet(), Options{MapSet: true}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := Begin(ir.FromInt(1), Options{}); err != nil {
		t.Errorf("leaf roots are allowed: %v", err)
	}
}

func TestUnmodifiedSharesBase(t *testing.T) {
	base := node(t, `{"a":{"b":[1,2]},"c":"x"}`)
	s := begin(t, base)
	a, err := s.Root().Draft("a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Draft("b"); err != nil {
		t.Fatal(err)
	}
	// writing an equal leaf is not a change
	if err := s.Root().Set("c", ir.FromString("x")); err != nil {
		t.Fatal(err)
	}
	if s.Modified() {
		t.Error("session should be unmodified")
	}
	res, changes := finalize(t, s)
	if res != base {
		t.Error("unmodified finalize must return the base pointer")
	}
	if len(changes) != 0 {
		t.Errorf("unexpected changes %v", summarize(changes))
	}
}

func TestNestedSet(t *testing.T) {
	base := node(t, `{"a":{"b":1},"c":{"d":2}}`)
	before := base.Clone()
	s := begin(t, base)
	a, err := s.Root().Draft("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Set("b", ir.FromInt(2)); err != nil {
		t.Fatal(err)
	}
	if !a.Modified() || !s.Root().Modified() {
		t.Error("write must mark draft and ancestors")
	}
	res, changes := finalize(t, s)
	if !ir.Equal(res, node(t, `{"a":{"b":2},"c":{"d":2}}`)) {
		t.Errorf("got %s", encode.MustString(res))
	}
	if res.Values[1] != base.Values[1] {
		t.Error("untouched subtree must be shared")
	}
	if !ir.Equal(base, before) || base.Values[0].Values[0] == res.Values[0].Values[0] {
		t.Error("base was mutated")
	}
	want := []change{{Kind: "replace", Path: "a.b", Old: "1", New: "2"}}
	if diff := cmp.Diff(want, summarize(changes)); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	if changes[0].In != ir.ObjectType {
		t.Errorf("In = %s", changes[0].In)
	}
}

func TestDraftIdentity(t *testing.T) {
	s := begin(t, node(t, `{"a":{"b":1},"l":[{"x":1}]}`))
	a1, _ := s.Root().Draft("a")
	a2, _ := s.Root().Draft("a")
	if a1 != a2 {
		t.Error("child drafts must be memoized")
	}
	l, _ := s.Root().Draft("l")
	e1, _ := l.Draft(0)
	if err := l.Insert(0, ir.FromInt(0)); err != nil {
		t.Fatal(err)
	}
	e2, err := l.Draft(1)
	if err != nil {
		t.Fatal(err)
	}
	if e1 != e2 {
		t.Error("child draft must follow its slot")
	}
	p, err := e1.Path()
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(kpath.MustParse("l[1]")) {
		t.Errorf("path %s", p)
	}
}

func TestStale(t *testing.T) {
	s := begin(t, node(t, `{"a":{"b":1},"c":{"d":1}}`))
	root := s.Root()
	a, _ := root.Draft("a")
	c, _ := root.Draft("c")
	if err := root.Set("a", ir.FromInt(0)); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Get("b"); !errors.Is(err, ErrStaleDraft) {
		t.Errorf("overwritten child: expected ErrStaleDraft, got %v", err)
	}
	if err := root.Delete("c"); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("d", ir.FromInt(2)); !errors.Is(err, ErrStaleDraft) {
		t.Errorf("removed child: expected ErrStaleDraft, got %v", err)
	}
	finalize(t, s)
	if _, err := root.Get("a"); !errors.Is(err, ErrStaleDraft) {
		t.Errorf("expected ErrStaleDraft after finalize, got %v", err)
	}
	if err := root.Set("x", ir.Null()); !errors.Is(err, ErrStaleDraft) {
		t.Errorf("expected ErrStaleDraft after finalize, got %v", err)
	}
	if _, _, err := s.Finalize(); !errors.Is(err, ErrStaleDraft) {
		t.Errorf("second finalize: %v", err)
	}

	s = begin(t, node(t, `{"a":1}`))
	s.Discard()
	if _, err := s.Root().Current(); !errors.Is(err, ErrStaleDraft) {
		t.Errorf("expected ErrStaleDraft after discard, got %v", err)
	}
}

func TestArrayOps(t *testing.T) {
	base := node(t, `[1,2,3]`)
	s := begin(t, base)
	d := s.Root()
	steps := []func() error{
		func() error { return d.Append(ir.FromInt(4)) },
		func() error { return d.Insert(0, ir.FromInt(0)) },
		func() error { return d.RemoveAt(2) },
		func() error { return d.Set(0, ir.FromInt(9)) },
		func() error { return d.Set(4, ir.FromInt(5)) },
		func() error { return d.Truncate(3) },
		func() error { return d.Delete(0) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	res, changes := finalize(t, s)
	if got := encode.MustString(res); got != "[1,3]" {
		t.Errorf("got %s", got)
	}
	want := []change{
		{Kind: "add", Path: "[3]", New: "4"},
		{Kind: "add", Path: "[0]", New: "0"},
		{Kind: "remove", Path: "[2]", Old: "2"},
		{Kind: "replace", Path: "[0]", Old: "0", New: "9"},
		{Kind: "add", Path: "[4]", New: "5"},
		{Kind: "remove", Path: "[4]", Old: "5"},
		{Kind: "remove", Path: "[3]", Old: "4"},
		{Kind: "remove", Path: "[0]", Old: "9"},
	}
	if diff := cmp.Diff(want, summarize(changes)); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	if got := encode.MustString(base); got != "[1,2,3]" {
		t.Errorf("base mutated: %s", got)
	}
}

func TestSetOps(t *testing.T) {
	base := ir.NewSet(ir.FromString("a"), ir.FromString("b"))
	s := begin(t, base)
	d := s.Root()
	if err := d.Add(ir.FromString("a")); err != nil {
		t.Fatal(err)
	}
	if d.Modified() {
		t.Error("adding a present member is not a change")
	}
	if err := d.Add(ir.FromString("c")); err != nil {
		t.Fatal(err)
	}
	if err := d.Remove(ir.FromString("a")); err != nil {
		t.Fatal(err)
	}
	if err := d.Remove(ir.FromString("zz")); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Draft(0); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("set members are not draftable: %v", err)
	}
	res, changes := finalize(t, s)
	if res.Type != ir.SetType || !ir.Equal(res, ir.NewSet(ir.FromString("c"), ir.FromString("b"))) {
		t.Errorf("got %s %s", res.Type, encode.MustString(res))
	}
	want := []change{
		{Kind: "add", Path: "[2]", New: `"c"`},
		{Kind: "remove", Path: "[0]", Old: `"a"`},
	}
	if diff := cmp.Diff(want, summarize(changes)); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestMapOps(t *testing.T) {
	m, err := ir.NewMap([]ir.KeyVal{
		{Key: ir.FromInt(1), Val: node(t, `{"v":1}`)},
		{Key: ir.FromString("s"), Val: ir.FromBool(true)},
	})
	if err != nil {
		t.Fatal(err)
	}
	base := ir.MustKeyVals(ir.KeyVal{Key: ir.FromString("m"), Val: m})

	s, err := Begin(base, Options{Record: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Root().Draft("m"); !errors.Is(err, ErrMapSetDisabled) {
		t.Errorf("expected ErrMapSetDisabled, got %v", err)
	}
	s.Discard()

	s = begin(t, base)
	md, err := s.Root().Draft("m")
	if err != nil {
		t.Fatal(err)
	}
	v, err := md.Draft(1)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Set("v", ir.FromInt(2)); err != nil {
		t.Fatal(err)
	}
	if err := md.Set(7, ir.FromString("seven")); err != nil {
		t.Fatal(err)
	}
	if err := md.Delete("s"); err != nil {
		t.Fatal(err)
	}
	if err := md.Set(1.5, ir.Null()); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch for float key, got %v", err)
	}
	keys, err := md.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{1, 7}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	res, changes := finalize(t, s)
	if res.Values[0].Type != ir.MapType {
		t.Errorf("map kind lost")
	}
	want := []change{
		{Kind: "replace", Path: "m{1}.v", Old: "1", New: "2"},
		{Kind: "add", Path: "m{7}", New: `"seven"`},
		{Kind: "remove", Path: "m.s", Old: "true"},
	}
	if diff := cmp.Diff(want, summarize(changes)); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	s := begin(t, node(t, `{"a":1,"l":[1],"o":{}}`))
	root := s.Root()
	l, _ := root.Draft("l")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"int key on object", root.Set(1, ir.Null()), ErrTypeMismatch},
		{"bool key", root.Set(true, ir.Null()), ErrTypeMismatch},
		{"nil value", root.Set("a", nil), ErrTypeMismatch},
		{"string index", l.Set("x", ir.Null()), ErrTypeMismatch},
		{"index past end", l.Set(5, ir.Null()), ErrOutOfRange},
		{"negative insert", l.Insert(-1, ir.Null()), ErrOutOfRange},
		{"remove past end", l.RemoveAt(1), ErrOutOfRange},
		{"truncate longer", l.Truncate(2), ErrOutOfRange},
		{"append to object", root.Append(ir.Null()), ErrTypeMismatch},
		{"add to array", l.Add(ir.Null()), ErrTypeMismatch},
		{"nil append", l.Append(ir.FromInt(1), nil), ErrTypeMismatch},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.err)
		}
	}
	if _, err := root.Draft("a"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("leaf draft: %v", err)
	}
	if _, err := root.Draft("zz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing draft: %v", err)
	}
	if _, err := root.Get("zz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing get: %v", err)
	}
	if ok, err := l.Has(3); ok || err != nil {
		t.Errorf("Has(3) = %v, %v", ok, err)
	}
	if ok, err := root.Has("o"); !ok || err != nil {
		t.Errorf("Has(o) = %v, %v", ok, err)
	}
	if s.Modified() {
		t.Error("failed writes must not modify")
	}
}

func TestCurrentSnapshot(t *testing.T) {
	s := begin(t, node(t, `{"a":{"b":1}}`))
	a, _ := s.Root().Draft("a")
	snap0, _ := s.Root().Current()
	if snap0 != s.Root().Original() {
		t.Error("unmodified current is the base")
	}
	_ = a.Set("b", ir.FromInt(2))
	snap1, _ := s.Root().Current()
	_ = a.Set("c", ir.FromInt(3))
	_ = a.Delete("b")
	if got := encode.MustString(snap1); got != `{"a":{"b":2}}` {
		t.Errorf("snapshot changed: %s", got)
	}
	res, _ := finalize(t, s)
	if got := encode.MustString(res); got != `{"a":{"c":3}}` {
		t.Errorf("got %s", got)
	}
}

func TestNoRecord(t *testing.T) {
	s, err := Begin(node(t, `{"a":1}`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Root().Set("a", ir.FromInt(2)); err != nil {
		t.Fatal(err)
	}
	res, changes := finalize(t, s)
	if len(changes) != 0 {
		t.Errorf("recorded without Record: %v", summarize(changes))
	}
	if got := encode.MustString(res); got != `{"a":2}` {
		t.Errorf("got %s", got)
	}
}

func TestClear(t *testing.T) {
	s := begin(t, node(t, `{"a":1,"b":2}`))
	if err := s.Root().Clear(); err != nil {
		t.Fatal(err)
	}
	res, changes := finalize(t, s)
	if got := encode.MustString(res); got != `{}` {
		t.Errorf("got %s", got)
	}
	want := []change{
		{Kind: "remove", Path: "b", Old: "2"},
		{Kind: "remove", Path: "a", Old: "1"},
	}
	if diff := cmp.Diff(want, summarize(changes)); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}
