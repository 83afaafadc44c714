package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/ir/kpath"
	"github.com/signadot/tony-format/go-produce/parse"
)

type Op string

const (
	OpReplace Op = "replace"
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
)

func (o Op) Valid() bool {
	switch o {
	case OpReplace, OpAdd, OpRemove:
		return true
	}
	return false
}

// Patch is a single edit. Value is nil for removals, except removals from
// sets, which carry the removed member.
type Patch struct {
	Op    Op
	Path  kpath.Path
	Value *ir.Node
}

func (p Patch) String() string {
	if p.Value == nil {
		return fmt.Sprintf("%s [%s]", p.Op, p.Path)
	}
	d, err := p.Value.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%s [%s] <%v>", p.Op, p.Path, err)
	}
	return fmt.Sprintf("%s [%s] %s", p.Op, p.Path, d)
}

// Check reports whether p is well formed.
func (p Patch) Check() error {
	if !p.Op.Valid() {
		return fmt.Errorf("%w: unknown op %q", ErrBadPatch, p.Op)
	}
	if p.Op != OpRemove && p.Value == nil {
		return fmt.Errorf("%w: %s without value", ErrBadPatch, p.Op)
	}
	for _, seg := range p.Path {
		if seg.IsZero() {
			return fmt.Errorf("%w: empty path segment", ErrBadPatch)
		}
	}
	return nil
}

type wirePatch struct {
	Op    Op              `json:"op"`
	Path  kpath.Path      `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

func (p Patch) MarshalJSON() ([]byte, error) {
	w := wirePatch{Op: p.Op, Path: p.Path}
	if p.Value != nil {
		d, err := p.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		w.Value = d
	}
	return json.Marshal(w)
}

func (p *Patch) UnmarshalJSON(d []byte) error {
	w := wirePatch{}
	if err := json.Unmarshal(d, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPatch, err)
	}
	res := Patch{Op: w.Op, Path: w.Path}
	if len(bytes.TrimSpace(w.Value)) != 0 {
		v, err := ir.FromJSON(w.Value)
		if err != nil {
			return fmt.Errorf("%w: value: %w", ErrBadPatch, err)
		}
		res.Value = v
	}
	if err := res.Check(); err != nil {
		return err
	}
	*p = res
	return nil
}

type Patches []Patch

// Reverse returns a reversed copy of ps.
func (ps Patches) Reverse() Patches {
	res := slices.Clone(ps)
	slices.Reverse(res)
	return res
}

func (ps Patches) MarshalJSON() ([]byte, error) {
	if ps == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Patch(ps))
}

// ToIR converts ps to a node tree in the wire shape, for encoding as YAML
// or JSON.
func (ps Patches) ToIR() *ir.Node {
	res := &ir.Node{Type: ir.ArrayType, Values: make([]*ir.Node, 0, len(ps))}
	for _, p := range ps {
		res.Values = append(res.Values, p.ToIR())
	}
	return res
}

func (p Patch) ToIR() *ir.Node {
	path := &ir.Node{Type: ir.ArrayType, Values: make([]*ir.Node, 0, len(p.Path))}
	for _, seg := range p.Path {
		switch k := seg.Key().(type) {
		case string:
			path.Values = append(path.Values, ir.FromString(k))
		case int:
			path.Values = append(path.Values, ir.FromInt(int64(k)))
		}
	}
	kvs := []ir.KeyVal{
		{Key: ir.FromString("op"), Val: ir.FromString(string(p.Op))},
		{Key: ir.FromString("path"), Val: path},
	}
	if p.Value != nil {
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString("value"), Val: p.Value})
	}
	return ir.MustKeyVals(kvs...)
}

// FromIR reads patches from a node in the wire shape. A path may also be
// a kinded path string.
func FromIR(node *ir.Node) (Patches, error) {
	if node.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: expected a list of patches, got %s", ErrBadPatch, node.Type)
	}
	res := make(Patches, 0, len(node.Values))
	for i, pn := range node.Values {
		p, err := patchFromIR(pn)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		res = append(res, p)
	}
	return res, nil
}

func patchFromIR(pn *ir.Node) (Patch, error) {
	if pn.Type != ir.ObjectType {
		return Patch{}, fmt.Errorf("%w: expected object, got %s", ErrBadPatch, pn.Type)
	}
	res := Patch{}
	for i, f := range pn.Fields {
		v := pn.Values[i]
		switch f.String {
		case "op":
			if v.Type != ir.StringType {
				return Patch{}, fmt.Errorf("%w: op must be a string", ErrBadPatch)
			}
			res.Op = Op(v.String)
		case "path":
			p, err := pathFromIR(v)
			if err != nil {
				return Patch{}, err
			}
			res.Path = p
		case "value":
			res.Value = v
		default:
			return Patch{}, fmt.Errorf("%w: unknown field %q", ErrBadPatch, f.String)
		}
	}
	if err := res.Check(); err != nil {
		return Patch{}, err
	}
	return res, nil
}

func pathFromIR(v *ir.Node) (kpath.Path, error) {
	switch v.Type {
	case ir.StringType:
		p, err := kpath.Parse(v.String)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPatch, err)
		}
		return p, nil
	case ir.ArrayType:
		p, err := kpath.FromKeys(ir.ToAny(v).([]any))
		if err != nil {
			return nil, fmt.Errorf("%w: path: %w", ErrBadPatch, err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: path must be a list or a string, got %s", ErrBadPatch, v.Type)
}

// Parse reads a JSON or YAML list of patches.
func Parse(d []byte, opts ...parse.ParseOption) (Patches, error) {
	node, err := parse.Parse(d, opts...)
	if err != nil {
		return nil, err
	}
	return FromIR(node)
}
