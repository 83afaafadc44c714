package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
)

// MarshalJSON encodes y as a plain JSON value, keeping field order. Maps
// encode as objects (int keys in decimal) and sets as arrays, so the kind
// of those containers does not survive a JSON round trip; use ToIRJSON
// for that.
func (y *Node) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, y); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, y *Node) error {
	if y == nil {
		buf.WriteString("null")
		return nil
	}
	switch y.Type {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		buf.WriteString(strconv.FormatBool(y.Bool))
	case StringType:
		d, err := json.Marshal(y.String)
		if err != nil {
			return err
		}
		buf.Write(d)
	case NumberType:
		switch {
		case y.Int64 != nil:
			buf.WriteString(strconv.FormatInt(*y.Int64, 10))
		case y.Float64 != nil:
			d, err := json.Marshal(*y.Float64)
			if err != nil {
				return err
			}
			buf.Write(d)
		default:
			if !json.Valid([]byte(y.Number)) {
				return fmt.Errorf("invalid number literal %q", y.Number)
			}
			buf.WriteString(y.Number)
		}
	case ArrayType, SetType:
		buf.WriteByte('[')
		for i, v := range y.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectType, MapType:
		buf.WriteByte('{')
		for i, f := range y.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			d, err := json.Marshal(KeyText(f))
			if err != nil {
				return err
			}
			buf.Write(d)
			buf.WriteByte(':')
			if err := writeJSON(buf, y.Values[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: %s", ErrWrongType, y.Type)
	}
	return nil
}

// KeyText returns the text of a string or int key.
func KeyText(key *Node) string {
	if key.Type == NumberType && key.Int64 != nil {
		return strconv.FormatInt(*key.Int64, 10)
	}
	return key.String
}

func (y *Node) UnmarshalJSON(d []byte) error {
	res, err := FromJSON(d)
	if err != nil {
		return err
	}
	*y = *res
	return nil
}

// FromJSON decodes a single JSON value, keeping object field order.
func FromJSON(d []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	res, err := decodeJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrParse)
	}
	return res, nil
}

func decodeJSON(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch x := tok.(type) {
	case json.Delim:
		switch x {
		case '{':
			res := &Node{Type: ObjectType}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				k, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", kt)
				}
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				if err := res.Put(FromString(k), v); err != nil {
					return nil, err
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return res, nil
		case '[':
			res := &Node{Type: ArrayType, Values: []*Node{}}
			for dec.More() {
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				res.Values = append(res.Values, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return res, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", x)
	case nil:
		return Null(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case json.Number:
		return numberFromText(string(x)), nil
	}
	return nil, fmt.Errorf("unexpected token %v (%T)", tok, tok)
}

// numberFromText prefers int64, then float64, then keeps the literal.
func numberFromText(v string) *Node {
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return FromInt(i)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) {
		return FromFloat(f)
	}
	return FromNumber(v)
}

// ToAny converts a node to plain Go values: map[string]any, []any, string,
// int, float64, bool and nil. Maps key ints in decimal; sets become slices.
func ToAny(node *Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case ObjectType, MapType:
		res := make(map[string]any, len(node.Fields))
		for i, f := range node.Fields {
			res[KeyText(f)] = ToAny(node.Values[i])
		}
		return res
	case ArrayType, SetType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = ToAny(elt)
		}
		return res
	case StringType:
		return node.String
	case NumberType:
		if node.Int64 != nil {
			return int(*node.Int64)
		}
		if node.Float64 != nil {
			return *node.Float64
		}
		return node.Number
	case BoolType:
		return node.Bool
	default:
		return nil
	}
}

// FromAny converts plain Go values to a node. Maps with string keys become
// objects with sorted fields.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		if x == nil {
			return Null(), nil
		}
		return x, nil
	case []*Node:
		return FromSlice(x), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case json.Number:
		return numberFromText(string(x)), nil
	case []any:
		res := &Node{Type: ArrayType, Values: make([]*Node, len(x))}
		for i, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			res.Values[i] = n
		}
		return res, nil
	case map[string]any:
		res := &Node{Type: ObjectType}
		for _, k := range slices.Sorted(maps.Keys(x)) {
			n, err := FromAny(x[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			res.Fields = append(res.Fields, FromString(k))
			res.Values = append(res.Values, n)
		}
		return res, nil
	case map[string]*Node:
		return FromMap(x), nil
	}
	return nil, fmt.Errorf("%w: cannot convert %T", ErrWrongType, v)
}

func fromUint(u uint64) *Node {
	if u > math.MaxInt64 {
		return FromNumber(strconv.FormatUint(u, 10))
	}
	return FromInt(int64(u))
}
