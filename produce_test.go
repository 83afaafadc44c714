package produce

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tony-format/go-produce/draft"
	"github.com/signadot/tony-format/go-produce/encode"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/patch"
)

func node(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func wire(t *testing.T, ps patch.Patches) string {
	t.Helper()
	d, err := ps.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	return string(d)
}

func setAge(age int64) Recipe {
	return Mutate(func(d *draft.Draft) error {
		return d.Set("age", ir.FromInt(age))
	})
}

func TestNoopIsIdentity(t *testing.T) {
	recipes := map[string]Recipe{
		"nothing": Mutate(func(d *draft.Draft) error { return nil }),
		"reads only": Mutate(func(d *draft.Draft) error {
			o, err := d.Draft("o")
			if err != nil {
				return err
			}
			_, err = o.Get("x")
			return err
		}),
		"same values": Mutate(func(d *draft.Draft) error {
			if err := d.Set("n", ir.FromInt(1)); err != nil {
				return err
			}
			o, err := d.Get("o")
			if err != nil {
				return err
			}
			return d.Set("o", o)
		}),
		"replace with base": func(d *draft.Draft) (Result, error) {
			return Replace(d.Original()), nil
		},
	}
	for name, r := range recipes {
		t.Run(name, func(t *testing.T) {
			base := node(t, `{"n":1,"o":{"x":[1]}}`)
			res, fwd, inv, err := ProduceWithPatches(base, r)
			if err != nil {
				t.Fatal(err)
			}
			if res != base {
				t.Error("no-op must return the base pointer")
			}
			if len(fwd) != 0 || len(inv) != 0 {
				t.Errorf("no-op patches %s %s", wire(t, fwd), wire(t, inv))
			}
		})
	}
}

func TestBaseUnchanged(t *testing.T) {
	base := node(t, `{"a":{"b":[1,2,{"c":3}]},"d":"x"}`)
	before := base.Clone()
	_, err := Produce(base, Mutate(func(d *draft.Draft) error {
		a, err := d.Draft("a")
		if err != nil {
			return err
		}
		b, err := a.Draft("b")
		if err != nil {
			return err
		}
		c, err := b.Draft(2)
		if err != nil {
			return err
		}
		if err := c.Set("c", ir.FromInt(4)); err != nil {
			return err
		}
		if err := b.RemoveAt(0); err != nil {
			return err
		}
		return d.Delete("d")
	}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(encode.MustString(before), encode.MustString(base)); diff != "" {
		t.Errorf("base changed (-before +after):\n%s", diff)
	}
}

func TestStructuralSharing(t *testing.T) {
	base := node(t, `{"a":{"x":1},"b":{"y":[2]},"c":[{"z":1},{"z":2}]}`)
	res, err := Produce(base, Mutate(func(d *draft.Draft) error {
		c, err := d.Draft("c")
		if err != nil {
			return err
		}
		e, err := c.Draft(1)
		if err != nil {
			return err
		}
		return e.Set("z", ir.FromInt(3))
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res == base {
		t.Fatal("expected a new root")
	}
	if res.Values[0] != base.Values[0] || res.Values[1] != base.Values[1] {
		t.Error("untouched fields must be shared")
	}
	if res.Values[2] == base.Values[2] {
		t.Error("changed array must be new")
	}
	if res.Values[2].Values[0] != base.Values[2].Values[0] {
		t.Error("untouched element must be shared")
	}
	if got := encode.MustString(res); got != `{"a":{"x":1},"b":{"y":[2]},"c":[{"z":1},{"z":3}]}` {
		t.Errorf("got %s", got)
	}
}

func TestPatchesOnOtherBase(t *testing.T) {
	base := node(t, `{"name":"A","age":32}`)
	res, fwd, inv, err := ProduceWithPatches(base, setAge(33))
	if err != nil {
		t.Fatal(err)
	}
	if got := encode.MustString(res); got != `{"name":"A","age":33}` {
		t.Errorf("got %s", got)
	}
	if got := wire(t, fwd); got != `[{"op":"replace","path":["age"],"value":33}]` {
		t.Errorf("forward %s", got)
	}
	if got := wire(t, inv); got != `[{"op":"replace","path":["age"],"value":32}]` {
		t.Errorf("inverse %s", got)
	}
	other := node(t, `{"name":"B","age":32}`)
	got, err := ApplyPatches(other, fwd)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, node(t, `{"name":"B","age":33}`)) {
		t.Errorf("got %s", encode.MustString(got))
	}
}

func TestErase(t *testing.T) {
	base := node(t, `{"hello":"world"}`)
	res, fwd, inv, err := ProduceWithPatches(base, func(d *draft.Draft) (Result, error) {
		return Erase(), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if res != nil {
		t.Errorf("erase gave %s", encode.MustString(res))
	}
	if got := wire(t, fwd); got != `[{"op":"remove","path":[]}]` {
		t.Errorf("forward %s", got)
	}
	gone, err := ApplyPatches(base, fwd)
	if err != nil || gone != nil {
		t.Errorf("applying erase: %v %v", gone, err)
	}
	back, err := ApplyPatches(nil, inv.Reverse())
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(back, base) {
		t.Errorf("undo erase gave %s", encode.MustString(back))
	}
	if _, err := Produce(nil, Mutate(func(*draft.Draft) error { return nil })); !errors.Is(err, draft.ErrNilBase) {
		t.Errorf("expected ErrNilBase, got %v", err)
	}
}

func TestAppendPatches(t *testing.T) {
	base := node(t, `[1,2,3]`)
	res, fwd, inv, err := ProduceWithPatches(base, Mutate(func(d *draft.Draft) error {
		return d.Append(ir.FromInt(4))
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := encode.MustString(res); got != "[1,2,3,4]" {
		t.Errorf("got %s", got)
	}
	if got := wire(t, fwd); got != `[{"op":"add","path":[3],"value":4}]` {
		t.Errorf("forward %s", got)
	}
	if got := wire(t, inv); got != `[{"op":"remove","path":[3]}]` {
		t.Errorf("inverse %s", got)
	}
}

func TestRoundTrip(t *testing.T) {
	base := node(t, `{"todos":[{"text":"a","done":false},{"text":"b","done":false}],"filter":"all"}`)
	res, fwd, inv, err := ProduceWithPatches(base, Mutate(func(d *draft.Draft) error {
		todos, err := d.Draft("todos")
		if err != nil {
			return err
		}
		first, err := todos.Draft(0)
		if err != nil {
			return err
		}
		if err := first.Set("done", ir.FromBool(true)); err != nil {
			return err
		}
		if err := todos.Insert(0, node(t, `{"text":"new","done":false}`)); err != nil {
			return err
		}
		if err := todos.RemoveAt(2); err != nil {
			return err
		}
		if err := d.Set("filter", ir.FromString("done")); err != nil {
			return err
		}
		return d.Set("count", ir.FromInt(2))
	}))
	if err != nil {
		t.Fatal(err)
	}
	again, err := ApplyPatches(base, fwd)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(again, res) {
		t.Errorf("forward replay %s", encode.MustString(again))
	}
	back, err := ApplyPatches(res, inv.Reverse())
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(back, base) {
		t.Errorf("undo gave %s", encode.MustString(back))
	}
}

func TestDraftIdentity(t *testing.T) {
	base := node(t, `{"a":{"b":{"c":1}}}`)
	_, err := Produce(base, Mutate(func(d *draft.Draft) error {
		a1, err := d.Draft("a")
		if err != nil {
			return err
		}
		b1, err := a1.Draft("b")
		if err != nil {
			return err
		}
		a2, _ := d.Draft("a")
		b2, _ := a2.Draft("b")
		if a1 != a2 || b1 != b2 {
			t.Error("repeated reads must give the same draft")
		}
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
}

func TestStaleAfterProduce(t *testing.T) {
	var kept, child *draft.Draft
	res, err := Produce(node(t, `{"a":{"b":1}}`), Mutate(func(d *draft.Draft) error {
		kept = d
		var err error
		child, err = d.Draft("a")
		return err
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err := kept.Set("x", ir.Null()); !errors.Is(err, draft.ErrStaleDraft) {
		t.Errorf("expected ErrStaleDraft, got %v", err)
	}
	if _, err := child.Get("b"); !errors.Is(err, draft.ErrStaleDraft) {
		t.Errorf("expected ErrStaleDraft, got %v", err)
	}
	if got := encode.MustString(res); got != `{"a":{"b":1}}` {
		t.Errorf("late write leaked: %s", got)
	}
}

func TestReplace(t *testing.T) {
	base := node(t, `{"a":1}`)
	repl := node(t, `[1]`)
	res, fwd, inv, err := ProduceWithPatches(base, func(d *draft.Draft) (Result, error) {
		return Replace(repl), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if res != repl {
		t.Error("expected the replacement")
	}
	back, err := ApplyPatches(res, inv.Reverse())
	if err != nil || !ir.Equal(back, base) {
		t.Errorf("undo replace: %v %v", back, err)
	}
	if got, err := ApplyPatches(base, fwd); err != nil || !ir.Equal(got, repl) {
		t.Errorf("redo replace: %v %v", got, err)
	}

	mutateThenReplace := func(d *draft.Draft) (Result, error) {
		if err := d.Set("a", ir.FromInt(2)); err != nil {
			return Result{}, err
		}
		return Replace(node(t, `{"z":0}`)), nil
	}
	if _, err := Produce(base, mutateThenReplace); !errors.Is(err, ErrInvalidProducerReturn) {
		t.Errorf("expected ErrInvalidProducerReturn, got %v", err)
	}
	lenient := New(DiscardOnReplace(true))
	got, err := lenient.Produce(base, mutateThenReplace)
	if err != nil {
		t.Fatal(err)
	}
	if encode.MustString(got) != `{"z":0}` {
		t.Errorf("got %s", encode.MustString(got))
	}
	_, err = Produce(base, func(d *draft.Draft) (Result, error) { return Replace(nil), nil })
	if !errors.Is(err, ErrInvalidProducerReturn) {
		t.Errorf("expected ErrInvalidProducerReturn for nil replacement, got %v", err)
	}

	leaf, err := Produce(ir.FromInt(1), func(d *draft.Draft) (Result, error) {
		return Replace(ir.FromInt(2)), nil
	})
	if err != nil || !ir.Equal(leaf, ir.FromInt(2)) {
		t.Errorf("leaf replace: %v %v", leaf, err)
	}
}

func TestRecipeError(t *testing.T) {
	boom := errors.New("boom")
	base := node(t, `{"a":1}`)
	_, err := Produce(base, Mutate(func(d *draft.Draft) error {
		if err := d.Set("a", ir.FromInt(2)); err != nil {
			return err
		}
		return boom
	}))
	if !errors.Is(err, boom) {
		t.Errorf("expected recipe error, got %v", err)
	}
	if encode.MustString(base) != `{"a":1}` {
		t.Error("base changed")
	}
}

func TestConfig(t *testing.T) {
	p := New()
	if _, _, _, err := p.ProduceWithPatches(node(t, `{}`), setAge(1)); !errors.Is(err, ErrPatchesDisabled) {
		t.Errorf("expected ErrPatchesDisabled, got %v", err)
	}
	if _, err := p.Produce(ir.NewSet(), Mutate(func(*draft.Draft) error { return nil })); !errors.Is(err, draft.ErrMapSetDisabled) {
		t.Errorf("expected ErrMapSetDisabled, got %v", err)
	}
	if p.IsDraftable(ir.NewSet()) || !IsDraftable(ir.NewSet()) {
		t.Error("IsDraftable must follow MapSet")
	}
	if IsDraftable(ir.FromInt(1)) || IsDraftable(nil) || !IsDraftable(node(t, `[]`)) {
		t.Error("IsDraftable")
	}

	frozen, err := Produce(node(t, `{"a":{}}`), setAge(3))
	if err != nil {
		t.Fatal(err)
	}
	if !frozen.IsFrozen() || !frozen.Values[0].IsFrozen() {
		t.Error("default producer freezes results")
	}
	if err := frozen.Put(ir.FromString("x"), ir.Null()); !errors.Is(err, ir.ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
	thawed, err := New(AutoFreeze(false)).Produce(node(t, `{}`), setAge(3))
	if err != nil {
		t.Fatal(err)
	}
	if thawed.IsFrozen() {
		t.Error("AutoFreeze(false) must not freeze")
	}
	if n := Freeze(node(t, `[1]`)); !n.IsFrozen() || !n.Values[0].IsFrozen() {
		t.Error("Freeze")
	}
}

func TestCurry(t *testing.T) {
	birthday := Curry(Mutate(func(d *draft.Draft) error {
		age, err := d.Get("age")
		if err != nil {
			return err
		}
		return d.Set("age", ir.FromInt(*age.Int64+1))
	}))
	got, err := birthday(node(t, `{"age":9}`))
	if err != nil {
		t.Fatal(err)
	}
	if encode.MustString(got) != `{"age":10}` {
		t.Errorf("got %s", encode.MustString(got))
	}
}

func TestCreateFinishDraft(t *testing.T) {
	base := node(t, `{"list":[1]}`)
	d, err := CreateDraft(base)
	if err != nil {
		t.Fatal(err)
	}
	l, err := d.Draft("list")
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Append(ir.FromInt(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := FinishDraft(l, nil); !errors.Is(err, draft.ErrNotRoot) {
		t.Errorf("expected ErrNotRoot, got %v", err)
	}
	var fwd, inv patch.Patches
	res, err := FinishDraft(d, func(f, i patch.Patches) {
		fwd, inv = f, i
	})
	if err != nil {
		t.Fatal(err)
	}
	if encode.MustString(res) != `{"list":[1,2]}` {
		t.Errorf("got %s", encode.MustString(res))
	}
	if wire(t, fwd) != `[{"op":"add","path":["list",1],"value":2}]` || wire(t, inv) != `[{"op":"remove","path":["list",1]}]` {
		t.Errorf("patches %s %s", wire(t, fwd), wire(t, inv))
	}
	if _, err := FinishDraft(nil, nil); !errors.Is(err, draft.ErrNotRoot) {
		t.Errorf("expected ErrNotRoot for a nil draft, got %v", err)
	}
	if _, err := FinishDraft(d, nil); !errors.Is(err, draft.ErrStaleDraft) {
		t.Errorf("expected ErrStaleDraft, got %v", err)
	}

	p := New()
	d2, err := p.CreateDraft(base)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.FinishDraft(d2, func(_, _ patch.Patches) {}); !errors.Is(err, ErrPatchesDisabled) {
		t.Errorf("expected ErrPatchesDisabled, got %v", err)
	}
}

func TestConcurrentFrozenBase(t *testing.T) {
	base := Freeze(node(t, `{"age":1,"o":{"x":[1,2]}}`))
	var wg sync.WaitGroup
	res := make([]*ir.Node, 8)
	errs := make([]error, 8)
	for i := range res {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res[i], errs[i] = Produce(base, setAge(int64(i)))
		}()
	}
	wg.Wait()
	for i := range res {
		if errs[i] != nil {
			t.Fatal(errs[i])
		}
		if res[i].Values[1] != base.Values[1] {
			t.Errorf("%d: untouched field not shared", i)
		}
		if got := *res[i].Values[0].Int64; got != int64(i) {
			t.Errorf("%d: age %d", i, got)
		}
	}
}
