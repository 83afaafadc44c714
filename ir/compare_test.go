package ir

import (
	"testing"
)

func obj(kvs ...any) *Node {
	res := &Node{Type: ObjectType}
	for i := 0; i < len(kvs); i += 2 {
		if err := res.Put(FromString(kvs[i].(string)), kvs[i+1].(*Node)); err != nil {
			panic(err)
		}
	}
	return res
}

func ints(vs ...int64) []*Node {
	res := make([]*Node, len(vs))
	for i, v := range vs {
		res[i] = FromInt(v)
	}
	return res
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Node
		expected int
	}{
		// Type ranking: Null < Bool < Number < String < Array < Set < Object < Map
		{"Null < Bool", Null(), FromBool(false), -1},
		{"Bool < Number", FromBool(true), FromInt(1), -1},
		{"Number < String", FromInt(1), FromString("a"), -1},
		{"String < Array", FromString("a"), FromSlice(nil), -1},
		{"Array < Set", FromSlice(nil), NewSet(), -1},
		{"Set < Object", NewSet(), obj(), -1},
		{"Object < Map", obj(), FromIntKeysMap(nil), -1},

		{"false < true", FromBool(false), FromBool(true), -1},
		{"true == true", FromBool(true), FromBool(true), 0},

		// Number sub ranking: Int < Float < literal
		{"Int < Float", FromInt(1), FromFloat(1.0), -1},
		{"Float < literal", FromFloat(1.0), FromNumber("1"), -1},
		{"Int < Int", FromInt(1), FromInt(2), -1},
		{"Float > Float", FromFloat(3.5), FromFloat(2.0), 1},

		{"String < String", FromString("a"), FromString("b"), -1},

		{"Empty arrays", FromSlice(nil), FromSlice(nil), 0},
		{"Short array < long", FromSlice(ints(1)), FromSlice(ints(1, 2)), -1},
		{"Array order matters", FromSlice(ints(1, 2)), FromSlice(ints(2, 1)), -1},

		{"Set order does not matter", NewSet(ints(1, 2, 3)...), NewSet(ints(3, 1, 2)...), 0},
		{"Set members", NewSet(ints(1, 2)...), NewSet(ints(1, 3)...), -1},

		{"Empty objects", obj(), obj(), 0},
		{"Field order does not matter",
			obj("a", FromInt(1), "b", FromInt(2)),
			obj("b", FromInt(2), "a", FromInt(1)),
			0},
		{"Short object < long", obj("a", FromInt(1)), obj("a", FromInt(1), "b", FromInt(2)), -1},
		{"Object key", obj("a", FromInt(1)), obj("b", FromInt(1)), -1},
		{"Object value", obj("a", FromInt(1)), obj("a", FromInt(2)), -1},
		{"Int keyed maps",
			FromIntKeysMap(map[int64]*Node{1: FromString("x")}),
			FromIntKeysMap(map[int64]*Node{1: FromString("y")}),
			-1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.expected {
				t.Errorf("Compare() = %v, want %v", got, tt.expected)
			}
			if got := Compare(tt.b, tt.a); got != -tt.expected {
				t.Errorf("Compare() reversed = %v, want %v", got, -tt.expected)
			}
			if tt.expected == 0 && tt.a.Hash() != tt.b.Hash() {
				t.Errorf("equal nodes hash differently")
			}
		})
	}
}

func TestCompareNil(t *testing.T) {
	if Compare(nil, nil) != 0 {
		t.Error("nil == nil")
	}
	if Compare(nil, Null()) != -1 || Compare(Null(), nil) != 1 {
		t.Error("nil sorts first")
	}
}

func TestHashDistinguishes(t *testing.T) {
	nodes := []*Node{
		Null(),
		FromBool(false),
		FromBool(true),
		FromInt(1),
		FromFloat(1),
		FromString("1"),
		FromSlice(ints(1, 2)),
		FromSlice(ints(2, 1)),
		NewSet(ints(1, 2)...),
		obj("a", FromInt(1)),
		obj("a", FromInt(2)),
		obj("b", FromInt(1)),
	}
	seen := map[uint64]int{}
	for i, n := range nodes {
		h := n.Hash()
		if j, ok := seen[h]; ok {
			t.Errorf("nodes %d and %d collide", j, i)
		}
		seen[h] = i
	}
}
