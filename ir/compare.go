package ir

import (
	"cmp"
	"slices"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	rankA := rank(a.Type)
	rankB := rank(b.Type)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type {
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case ArrayType:
		return compareArrays(a.Values, b.Values)
	case SetType:
		return compareArrays(sortedValues(a), sortedValues(b))
	case ObjectType, MapType:
		return compareObjects(a, b)
	case NullType:
		return 0
	}
	return 0
}

// Equal reports whether a and b have the same contents. Field order of
// objects and maps and member order of sets do not take part.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

// rank returns the sorting rank of a type.
// Order: Null < Bool < Number < String < Array < Set < Object < Map
func rank(t Type) int {
	switch t {
	case NullType:
		return 1
	case BoolType:
		return 2
	case NumberType:
		return 3
	case StringType:
		return 4
	case ArrayType:
		return 5
	case SetType:
		return 6
	case ObjectType:
		return 7
	case MapType:
		return 8
	}
	return 100
}

func compareNumbers(a, b *Node) int {
	// Sub-rank: Int64 < Float64 < String
	subRankA := numberSubRank(a)
	subRankB := numberSubRank(b)
	if subRankA != subRankB {
		return cmp.Compare(subRankA, subRankB)
	}

	if a.Int64 != nil {
		return cmp.Compare(*a.Int64, *b.Int64)
	}
	if a.Float64 != nil {
		return cmp.Compare(*a.Float64, *b.Float64)
	}
	return strings.Compare(a.Number, b.Number)
}

func numberSubRank(n *Node) int {
	if n.Int64 != nil {
		return 0
	}
	if n.Float64 != nil {
		return 1
	}
	return 2
}

func compareArrays(a, b []*Node) int {
	lenA := len(a)
	lenB := len(b)
	minLen := min(lenA, lenB)

	for i := 0; i < minLen; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareObjects(a, b *Node) int {
	ia := sortedFields(a)
	ib := sortedFields(b)
	minLen := min(len(ia), len(ib))

	for i := 0; i < minLen; i++ {
		if c := Compare(a.Fields[ia[i]], b.Fields[ib[i]]); c != 0 {
			return c
		}
		if c := Compare(a.Values[ia[i]], b.Values[ib[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ia), len(ib))
}

func sortedValues(n *Node) []*Node {
	res := slices.Clone(n.Values)
	slices.SortFunc(res, Compare)
	return res
}

func sortedFields(n *Node) []int {
	res := make([]int, len(n.Fields))
	for i := range res {
		res[i] = i
	}
	slices.SortFunc(res, func(i, j int) int {
		return Compare(n.Fields[i], n.Fields[j])
	})
	return res
}
