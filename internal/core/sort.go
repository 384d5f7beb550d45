package core

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidDirection is returned by ParseDirection for unknown spellings.
var ErrInvalidDirection = errors.New("invalid sort direction")

// Direction is the sort direction applied to a column.
type Direction string

const (
	DirNone Direction = "none"
	DirAsc  Direction = "asc"
	DirDesc Direction = "desc"
)

// ParseDirection accepts "", "none", "asc", "ascending", "desc" and
// "descending" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DirNone, nil
	case "asc", "ascending":
		return DirAsc, nil
	case "desc", "descending":
		return DirDesc, nil
	default:
		return DirNone, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Next returns the direction that follows d in the none -> asc -> desc cycle.
func (d Direction) Next() Direction {
	switch d {
	case DirAsc:
		return DirDesc
	case DirDesc:
		return DirNone
	default:
		return DirAsc
	}
}

// Row maps a trimmed column name to its typed value.
type Row map[string]Value

// Get returns the value at column, or absence when the row has no such key.
func (r Row) Get(column string) Value {
	return r[column]
}

// Order returns the input positions of rows ordered by column in direction
// dir. DirNone yields 0..n-1. Rows whose keys compare equal keep their input
// order in both directions; the tie-break is never reversed.
//
// Compare is not transitive across a column that mixes numbers with numeric
// looking text, so Order guarantees only that every adjacent pair is in
// order. Input already in that state is returned unchanged, which keeps
// re-sorting a sorted view a no-op.
func Order(rows []Row, column string, dir Direction) []int {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	if dir != DirAsc && dir != DirDesc {
		return order
	}

	keys := make([]Value, len(rows))
	for i, r := range rows {
		keys[i] = r.Get(column)
	}

	less := func(a, b int) int {
		c := Compare(keys[a], keys[b])
		if dir == DirDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	}
	if slices.IsSortedFunc(order, less) {
		return order
	}

	slices.SortFunc(order, less)
	settle(order, less)
	return order
}

// settle runs an insertion pass so each adjacent pair satisfies less. On
// output from a transitive comparison it only walks the slice once.
func settle(order []int, less func(a, b int) int) {
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && less(order[j-1], order[j]) > 0; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
}

// Sort returns rows ordered by column in the given direction.
//
// The input slice is never modified; the result is a new slice holding the
// same Row maps. DirNone returns a copy in input order.
func Sort(rows []Row, column string, dir Direction) []Row {
	return pick(rows, Order(rows, column, dir))
}

func pick(rows []Row, order []int) []Row {
	out := make([]Row, len(order))
	for i, p := range order {
		out[i] = rows[p]
	}
	return out
}
