package ir

import (
	"encoding/json"
	"fmt"
)

// irBase is the structural JSON form of a Node. Unlike MarshalJSON, it
// records the node type, so maps, sets and int keys survive a round trip.
type irBase struct {
	Type    Type      `json:"type"`
	Fields  []*irBase `json:"fields,omitempty"`
	Values  []*irBase `json:"values,omitempty"`
	String  string    `json:"string,omitempty"`
	Bool    bool      `json:"bool,omitempty"`
	Number  string    `json:"number,omitempty"`
	Float64 *float64  `json:"float,omitempty"`
	Int64   *int64    `json:"int,omitempty"`
}

// ToIRJSON encodes y in the structural IR form.
func ToIRJSON(y *Node) ([]byte, error) {
	return json.Marshal(toIRBase(y))
}

// FromIRJSON decodes the structural IR form, checking keys and set
// membership.
func FromIRJSON(d []byte) (*Node, error) {
	base := &irBase{}
	if err := json.Unmarshal(d, base); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fromIRBase(base)
}

func toIRBase(y *Node) *irBase {
	if y == nil {
		return &irBase{Type: NullType}
	}
	res := &irBase{
		Type:    y.Type,
		String:  y.String,
		Bool:    y.Bool,
		Number:  y.Number,
		Float64: y.Float64,
		Int64:   y.Int64,
	}
	if len(y.Fields) != 0 {
		res.Fields = make([]*irBase, len(y.Fields))
		for i, f := range y.Fields {
			res.Fields[i] = toIRBase(f)
		}
	}
	if len(y.Values) != 0 {
		res.Values = make([]*irBase, len(y.Values))
		for i, v := range y.Values {
			res.Values[i] = toIRBase(v)
		}
	}
	return res
}

func fromIRBase(b *irBase) (*Node, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: missing node", ErrParse)
	}
	res := &Node{Type: b.Type}
	switch b.Type {
	case NullType:
	case BoolType:
		res.Bool = b.Bool
	case StringType:
		res.String = b.String
	case NumberType:
		res.Number = b.Number
		res.Float64 = b.Float64
		res.Int64 = b.Int64
		if res.Number == "" && res.Float64 == nil && res.Int64 == nil {
			return nil, fmt.Errorf("%w: number without value", ErrParse)
		}
	case ArrayType, SetType:
		res.Values = make([]*Node, 0, len(b.Values))
		for i, v := range b.Values {
			n, err := fromIRBase(v)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			if err := res.Push(n); err != nil {
				return nil, err
			}
		}
		if res.Type == SetType && len(res.Values) != len(b.Values) {
			return nil, fmt.Errorf("%w: repeated set member", ErrParse)
		}
	case ObjectType, MapType:
		if len(b.Fields) != len(b.Values) {
			return nil, fmt.Errorf("%w: %d fields with %d values", ErrParse, len(b.Fields), len(b.Values))
		}
		for i := range b.Fields {
			k, err := fromIRBase(b.Fields[i])
			if err != nil {
				return nil, err
			}
			v, err := fromIRBase(b.Values[i])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", KeyString(k), err)
			}
			if err := res.Put(k, v); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %d", ErrParse, b.Type)
	}
	return res, nil
}
