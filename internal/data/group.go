package data

import "fmt"

// Groups is a nested grouping result. Inner nodes map keys to child groups
// in first-seen order; leaves hold a reduced value.
type Groups[K comparable, V any] struct {
	keys     []K
	children map[K]*Groups[K, V]
	value    V
	leaf     bool
}

// Leaf reports whether g holds a value rather than children.
func (g *Groups[K, V]) Leaf() bool { return g.leaf }

// Value returns the reduced value of a leaf.
func (g *Groups[K, V]) Value() V { return g.value }

// Keys returns the child keys in first-seen order.
func (g *Groups[K, V]) Keys() []K { return append([]K(nil), g.keys...) }

// Len returns the number of children.
func (g *Groups[K, V]) Len() int { return len(g.keys) }

// Child returns the group stored under key, or nil.
func (g *Groups[K, V]) Child(key K) *Groups[K, V] {
	if g.leaf {
		return nil
	}
	return g.children[key]
}

// Lookup follows path from g and returns the leaf value found there.
func (g *Groups[K, V]) Lookup(path ...K) (V, bool) {
	cur := g
	for _, k := range path {
		if cur = cur.Child(k); cur == nil {
			var zero V
			return zero, false
		}
	}
	if !cur.leaf {
		var zero V
		return zero, false
	}
	return cur.value, true
}

// Walk calls fn for every leaf with its key path, in first-seen order.
func (g *Groups[K, V]) Walk(fn func(path []K, value V)) {
	g.walk(nil, fn)
}

func (g *Groups[K, V]) walk(prefix []K, fn func([]K, V)) {
	if g.leaf {
		fn(append([]K(nil), prefix...), g.value)
		return
	}
	for _, k := range g.keys {
		g.children[k].walk(append(prefix, k), fn)
	}
}

func checkDepth(n int) error {
	if n < 1 || n > MaxGroupDepth {
		return &UnsupportedDepthError{Depth: n, Max: MaxGroupDepth}
	}
	return nil
}

// GroupBy nests records under one to three keys.
func GroupBy[T any, K comparable](records []T, keys ...func(T) K) (*Groups[K, []T], error) {
	return RollupBy(records, func(members []T) []T { return members }, keys...)
}

// RollupBy groups records like GroupBy and reduces each leaf group.
func RollupBy[T any, K comparable, V any](records []T, reduce func([]T) V, keys ...func(T) K) (*Groups[K, V], error) {
	if err := checkDepth(len(keys)); err != nil {
		return nil, err
	}
	return rollup(records, reduce, keys), nil
}

func rollup[T any, K comparable, V any](records []T, reduce func([]T) V, keys []func(T) K) *Groups[K, V] {
	if len(keys) == 0 {
		return &Groups[K, V]{leaf: true, value: reduce(records)}
	}

	buckets := make(map[K][]T)
	var order []K
	for _, r := range records {
		k := keys[0](r)
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], r)
	}

	g := &Groups[K, V]{keys: order, children: make(map[K]*Groups[K, V], len(order))}
	for _, k := range order {
		g.children[k] = rollup(buckets[k], reduce, keys[1:])
	}
	return g
}

// Tuple is one flattened rollup row.
type Tuple[K comparable, V any] struct {
	Keys  []K
	Value V
}

// FlatRollupBy is RollupBy flattened into key tuples.
func FlatRollupBy[T any, K comparable, V any](records []T, reduce func([]T) V, keys ...func(T) K) ([]Tuple[K, V], error) {
	g, err := RollupBy(records, reduce, keys...)
	if err != nil {
		return nil, err
	}
	var out []Tuple[K, V]
	g.Walk(func(path []K, v V) {
		out = append(out, Tuple[K, V]{Keys: path, Value: v})
	})
	return out, nil
}

// IndexBy groups records by unique key paths. Two records sharing a full
// key path yield ErrDuplicateKey.
func IndexBy[T any, K comparable](records []T, keys ...func(T) K) (*Groups[K, T], error) {
	grouped, err := GroupBy(records, keys...)
	if err != nil {
		return nil, err
	}
	var dup error
	grouped.Walk(func(path []K, members []T) {
		if dup == nil && len(members) > 1 {
			dup = fmt.Errorf("%w: %v", ErrDuplicateKey, path)
		}
	})
	if dup != nil {
		return nil, dup
	}
	return RollupBy(records, func(members []T) T { return members[0] }, keys...)
}

// CrossTab is a two-way rollup table.
type CrossTab[R, C comparable, V any] struct {
	Rows  []R
	Cols  []C
	Cells map[R]map[C]V
}

// Cell returns the value at (row, col) and whether that combination occurred.
func (t *CrossTab[R, C, V]) Cell(row R, col C) (V, bool) {
	v, ok := t.Cells[row][col]
	return v, ok
}

// CrossTabulate reduces records into a row-by-column table.
func CrossTabulate[T any, R, C comparable, V any](records []T, row func(T) R, col func(T) C, reduce func([]T) V) *CrossTab[R, C, V] {
	type cell struct {
		r R
		c C
	}
	t := &CrossTab[R, C, V]{Cells: make(map[R]map[C]V)}
	seenRow := make(map[R]bool)
	seenCol := make(map[C]bool)
	members := make(map[cell][]T)
	var cells []cell
	for _, rec := range records {
		k := cell{row(rec), col(rec)}
		if !seenRow[k.r] {
			seenRow[k.r] = true
			t.Rows = append(t.Rows, k.r)
		}
		if !seenCol[k.c] {
			seenCol[k.c] = true
			t.Cols = append(t.Cols, k.c)
		}
		if _, ok := members[k]; !ok {
			cells = append(cells, k)
		}
		members[k] = append(members[k], rec)
	}
	for _, k := range cells {
		if t.Cells[k.r] == nil {
			t.Cells[k.r] = make(map[C]V)
		}
		t.Cells[k.r][k.c] = reduce(members[k])
	}
	return t
}
