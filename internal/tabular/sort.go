package tabular

import (
	"cmp"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Direction is the order of an active sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is the active sort. It only exists once the user asked for one.
type SortState struct {
	Key       string
	Direction Direction
}

// Next returns the state after the user triggers a sort on key: the same key
// while ascending flips to descending, anything else starts ascending on key.
func (s *SortState) Next(key string) SortState {
	if s != nil && s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// Sort returns a new slice ordered by the values under key. Records that
// compare equal keep their relative order.
func Sort(records []Record, key string, dir Direction) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		c := Compare(out[i][key], out[j][key])
		if dir == Descending {
			c = -c
		}
		return c < 0
	})
	return out
}

// Compare is a three-way comparison using the native ordering of the
// values. Missing values sort first; mismatched types compare by their
// display strings.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if c, ok := compareIntegers(a, b); ok {
		return c
	}
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmp.Compare(fa, fb)
		}
	}

	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return strings.Compare(va, vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			switch {
			case va == vb:
				return 0
			case !va:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			return va.Compare(vb)
		}
	}

	return strings.Compare(Stringify(a), Stringify(b))
}

// integer widens whole numbers without going through float64, which loses
// precision above 2^53.
type integer struct {
	neg bool   // v < 0, held in i
	i   int64  // signed value
	u   uint64 // magnitude when !neg
}

func asInteger(v any) (integer, bool) {
	signed := func(n int64) (integer, bool) {
		if n < 0 {
			return integer{neg: true, i: n}, true
		}
		return integer{i: n, u: uint64(n)}, true
	}
	switch n := v.(type) {
	case int:
		return signed(int64(n))
	case int8:
		return signed(int64(n))
	case int16:
		return signed(int64(n))
	case int32:
		return signed(int64(n))
	case int64:
		return signed(n)
	case uint:
		return integer{u: uint64(n)}, true
	case uint8:
		return integer{u: uint64(n)}, true
	case uint16:
		return integer{u: uint64(n)}, true
	case uint32:
		return integer{u: uint64(n)}, true
	case uint64:
		return integer{u: n}, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return signed(i)
		}
	}
	return integer{}, false
}

func compareIntegers(a, b any) (int, bool) {
	ia, ok := asInteger(a)
	if !ok {
		return 0, false
	}
	ib, ok := asInteger(b)
	if !ok {
		return 0, false
	}
	switch {
	case ia.neg && ib.neg:
		return cmp.Compare(ia.i, ib.i), true
	case ia.neg:
		return -1, true
	case ib.neg:
		return 1, true
	}
	return cmp.Compare(ia.u, ib.u), true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
