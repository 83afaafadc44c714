package main

import (
	"errors"
	"fmt"
	"strings"

	produce "github.com/signadot/tony-format/go-produce"
	"github.com/signadot/tony-format/go-produce/draft"
	"github.com/signadot/tony-format/go-produce/encode"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/ir/kpath"
	"github.com/signadot/tony-format/go-produce/patch"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
)

// edit is one -e or -d argument.
type edit struct {
	path   kpath.Path
	expr   string
	delete bool
}

func (e edit) String() string {
	if e.delete {
		return "-d " + e.path.String()
	}
	return e.path.String() + "=" + e.expr
}

func parseEdit(a string, del bool) (edit, error) {
	src, x := a, ""
	if !del {
		i := strings.IndexByte(a, '=')
		if i == -1 {
			return edit{}, fmt.Errorf("expected kpath=expr, got %q", a)
		}
		src, x = strings.TrimSpace(a[:i]), strings.TrimSpace(a[i+1:])
		if x == "" {
			return edit{}, fmt.Errorf("empty expression in %q", a)
		}
	}
	p, err := kpath.Parse(src)
	if err != nil {
		return edit{}, err
	}
	if len(p) == 0 {
		return edit{}, fmt.Errorf("cannot edit the root in %q", a)
	}
	return edit{path: p, expr: x, delete: del}, nil
}

func editMain(cfg *EditConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Edit.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: edit takes at most one file, got %v", cli.ErrUsage, args)
	}
	file := "-"
	if len(args) == 1 {
		file = args[0]
	}
	base, err := getObjFile(cc, file, cfg.parseOpts()...)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", file, err)
	}
	res, fwd, inv, err := runEdits(cfg.producer(), base, cfg.Edits)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(cc.Out)
	switch {
	case cfg.Forward && cfg.Inverse:
		if err := encode.Encode(fwd.ToIR(), cc.Out, opts...); err != nil {
			return err
		}
		if err := writeSep(cc.Out, 1); err != nil {
			return err
		}
		return encode.Encode(inv.ToIR(), cc.Out, opts...)
	case cfg.Forward:
		return encode.Encode(fwd.ToIR(), cc.Out, opts...)
	case cfg.Inverse:
		return encode.Encode(inv.ToIR(), cc.Out, opts...)
	}
	return encode.Encode(res, cc.Out, opts...)
}

// runEdits applies edits in order in one produce call.
func runEdits(p *produce.Producer, base *ir.Node, edits []edit) (*ir.Node, patch.Patches, patch.Patches, error) {
	return p.ProduceWithPatches(base, produce.Mutate(func(d *draft.Draft) error {
		for _, e := range edits {
			if err := applyEdit(d, e); err != nil {
				return fmt.Errorf("%s: %w", e, err)
			}
		}
		return nil
	}))
}

func applyEdit(root *draft.Draft, e edit) error {
	parent, last, _ := e.path.Parent()
	d := root
	for _, seg := range parent {
		next, err := d.Draft(seg.Key())
		if err != nil {
			return err
		}
		d = next
	}
	key := last.Key()
	if e.delete {
		if d.Type() == ir.SetType {
			i, ok := last.Int()
			if !ok {
				return fmt.Errorf("%w: field %s in set", draft.ErrTypeMismatch, last)
			}
			return d.RemoveAt(i)
		}
		return d.Delete(key)
	}
	doc, err := root.Current()
	if err != nil {
		return err
	}
	var old *ir.Node
	ok, err := d.Has(key)
	if err != nil {
		return err
	}
	if ok {
		if old, err = d.Get(key); err != nil {
			return err
		}
	}
	v, err := evalExpr(e.expr, doc, old)
	if err != nil {
		return err
	}
	if d.Type() == ir.SetType {
		return d.Add(v)
	}
	return d.Set(key, v)
}

var errExpr = errors.New("expression")

func evalExpr(src string, doc, old *ir.Node) (*ir.Node, error) {
	env := map[string]any{
		"doc": ir.ToAny(doc),
		"old": ir.ToAny(old),
	}
	prg, err := expr.Compile(src, append(exprOpts(doc), expr.Env(env))...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errExpr, err)
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errExpr, err)
	}
	return ir.FromAny(res)
}

func exprOpts(doc *ir.Node) []expr.Option {
	return []expr.Option{
		expr.Function("at", func(params ...any) (any, error) {
			n, err := doc.GetKPath(params[0].(string))
			if err != nil {
				return nil, err
			}
			return ir.ToAny(n), nil
		},
			new(func(string) any)),
	}
}
