package parse

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-yaml"
	"github.com/signadot/tony-format/go-produce/format"
	"github.com/signadot/tony-format/go-produce/ir"
)

func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	o := &parseOpts{}
	for _, opt := range opts {
		opt(o)
	}
	f := detect(d)
	if o.format != nil {
		f = *o.format
	}
	switch f {
	case format.JSONFormat:
		node, err := ir.FromJSON(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return node, nil
	case format.YAMLFormat:
		return parseYAML(d)
	}
	return nil, fmt.Errorf("%w: %s", format.ErrBadFormat, f)
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader, opts ...ParseOption) (*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(d, opts...)
}

func detect(d []byte) format.Format {
	t := bytes.TrimSpace(d)
	if len(t) > 0 && (t[0] == '{' || t[0] == '[') {
		return format.JSONFormat
	}
	return format.YAMLFormat
}

func parseYAML(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fromYAML(v)
}

func fromYAML(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		return fromMapSlice(x)
	case []any:
		res := &ir.Node{Type: ir.ArrayType, Values: make([]*ir.Node, len(x))}
		for i, e := range x {
			n, err := fromYAML(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			res.Values[i] = n
		}
		return res, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ir.FromNumber(fmt.Sprint(x)), nil
		}
	}
	n, err := ir.FromAny(v)
	if err != nil {
		// timestamps and other resolved scalars keep their text
		return ir.FromString(fmt.Sprint(v)), nil
	}
	return n, nil
}

func fromMapSlice(ms yaml.MapSlice) (*ir.Node, error) {
	t := ir.ObjectType
	for _, item := range ms {
		if _, ok := item.Key.(string); !ok {
			t = ir.MapType
			break
		}
	}
	res := &ir.Node{Type: t}
	for _, item := range ms {
		k, err := yamlKey(item.Key)
		if err != nil {
			return nil, err
		}
		val, err := fromYAML(item.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ir.KeyString(k), err)
		}
		if err := res.Put(k, val); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
	}
	return res, nil
}

func yamlKey(k any) (*ir.Node, error) {
	switch x := k.(type) {
	case string:
		return ir.FromString(x), nil
	case int, int64, uint64, int32, uint32:
		n, err := ir.FromAny(x)
		if err != nil || n.Int64 == nil {
			return nil, fmt.Errorf("%w: key %v", ErrMixKey, k)
		}
		return n, nil
	case nil:
		return nil, fmt.Errorf("%w: null key", ErrParse)
	}
	return nil, fmt.Errorf("%w: key %v (%T)", ErrMixKey, k, k)
}
