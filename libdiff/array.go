package libdiff

import (
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/ir/kpath"
	"github.com/signadot/tony-format/go-produce/patch"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// runeTable gives each class of equal nodes its own rune, so that arrays
// can be diffed as rune strings.
type runeTable struct {
	byHash map[uint64][]class
	n      int
}

type class struct {
	rep *ir.Node
	r   rune
}

func (t *runeTable) runes(vs []*ir.Node) []rune {
	rs := make([]rune, len(vs))
	for i, v := range vs {
		rs[i] = t.rune(v)
	}
	return rs
}

func (t *runeTable) rune(v *ir.Node) rune {
	h := v.Hash()
	for _, c := range t.byHash[h] {
		if ir.Equal(c.rep, v) {
			return c.r
		}
	}
	r := rune(t.n)
	if r >= 0xD800 {
		// skip surrogates
		r += 0x800
	}
	t.n++
	t.byHash[h] = append(t.byHash[h], class{rep: v, r: r})
	return r
}

// diffArray matches equal elements with a common subsequence and edits
// the runs between matches. Within a run, deleted and inserted elements
// are paired off first and diffed in place.
func diffArray(ps *patch.Patches, p kpath.Path, from, to *ir.Node) {
	t := &runeTable{byHash: map[uint64][]class{}}
	fromRunes := t.runes(from.Values)
	toRunes := t.runes(to.Values)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)

	// ci is the position in the array as edited so far.
	ci, fi, ti := 0, 0, 0
	del, ins := 0, 0
	flush := func() {
		k := min(del, ins)
		for range k {
			diffAt(ps, p.Append(kpath.Index(ci)), from.Values[fi], to.Values[ti])
			ci++
			fi++
			ti++
		}
		for range del - k {
			emit(ps, patch.Patch{Op: patch.OpRemove, Path: p.Append(kpath.Index(ci))})
			fi++
		}
		for range ins - k {
			emit(ps, patch.Patch{Op: patch.OpAdd, Path: p.Append(kpath.Index(ci)), Value: to.Values[ti]})
			ci++
			ti++
		}
		del, ins = 0, 0
	}
	for _, d := range diffs {
		n := len([]rune(d.Text))
		switch d.Type {
		case diffpatch.DiffDelete:
			del += n
		case diffpatch.DiffInsert:
			ins += n
		case diffpatch.DiffEqual:
			flush()
			ci += n
			fi += n
			ti += n
		}
	}
	flush()
}
