package libdiff

import (
	"github.com/signadot/tony-format/go-produce/debug"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/ir/kpath"
	"github.com/signadot/tony-format/go-produce/patch"
)

// Diff returns patches taking from to to. Either side may be nil, meaning
// no value. Equal trees give no patches.
func Diff(from, to *ir.Node) patch.Patches {
	var ps patch.Patches
	diffAt(&ps, nil, from, to)
	if debug.Diff() {
		debug.Logf("diff: %d patches\n", len(ps))
	}
	return ps
}

// Reverse returns patches taking to back to from.
func Reverse(from, to *ir.Node) patch.Patches {
	return Diff(to, from)
}

func diffAt(ps *patch.Patches, p kpath.Path, from, to *ir.Node) {
	switch {
	case from == nil && to == nil:
		return
	case from == nil:
		emit(ps, patch.Patch{Op: patch.OpAdd, Path: p, Value: to})
		return
	case to == nil:
		emit(ps, patch.Patch{Op: patch.OpRemove, Path: p})
		return
	case from == to || ir.Equal(from, to):
		return
	case from.Type != to.Type || from.Type.IsLeaf():
		emit(ps, patch.Patch{Op: patch.OpReplace, Path: p, Value: to})
		return
	}
	switch from.Type {
	case ir.ObjectType, ir.MapType:
		diffKeyed(ps, p, from, to)
	case ir.ArrayType:
		diffArray(ps, p, from, to)
	case ir.SetType:
		diffSet(ps, p, from, to)
	}
}

func emit(ps *patch.Patches, pt patch.Patch) {
	if debug.Diff() {
		debug.Logf("diff: %s\n", pt)
	}
	*ps = append(*ps, pt)
}

// diffKeyed removes keys missing from to, descends into shared keys and
// then adds new keys in to's order.
func diffKeyed(ps *patch.Patches, p kpath.Path, from, to *ir.Node) {
	for _, k := range from.Fields {
		if to.KeyIndex(k) == -1 {
			emit(ps, patch.Patch{Op: patch.OpRemove, Path: p.Append(ir.KeySegment(from.Type, k))})
		}
	}
	for i, k := range from.Fields {
		j := to.KeyIndex(k)
		if j == -1 {
			continue
		}
		diffAt(ps, p.Append(ir.KeySegment(from.Type, k)), from.Values[i], to.Values[j])
	}
	for j, k := range to.Fields {
		if from.KeyIndex(k) != -1 {
			continue
		}
		emit(ps, patch.Patch{Op: patch.OpAdd, Path: p.Append(ir.KeySegment(to.Type, k)), Value: to.Values[j]})
	}
}

// diffSet removes members missing from to and appends the new ones. Set
// removals carry the member.
func diffSet(ps *patch.Patches, p kpath.Path, from, to *ir.Node) {
	n := 0
	for _, v := range from.Values {
		if to.SetIndex(v) == -1 {
			emit(ps, patch.Patch{Op: patch.OpRemove, Path: p.Append(kpath.Index(n)), Value: v})
			continue
		}
		n++
	}
	for _, v := range to.Values {
		if from.SetIndex(v) != -1 {
			continue
		}
		emit(ps, patch.Patch{Op: patch.OpAdd, Path: p.Append(kpath.Index(n)), Value: v})
		n++
	}
}
