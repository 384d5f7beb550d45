package core

import (
	"cmp"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collators holds case-insensitive, numeral-aware collators. A Collator keeps
// internal buffers and must not be shared between goroutines.
var collators = sync.Pool{
	New: func() any {
		return collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
	},
}

// Compare orders two values and returns a negative number, zero, or a
// positive number.
//
// Absence is greater than every other value, numbers compare arithmetically,
// and any pairing involving text compares the display renderings of both
// sides, ignoring case and ordering digit runs by numeric value.
func Compare(a, b Value) int {
	switch {
	case a.IsAbsent() && b.IsAbsent():
		return 0
	case a.IsAbsent():
		return 1
	case b.IsAbsent():
		return -1
	case a.IsNumber() && b.IsNumber():
		return cmp.Compare(a.num, b.num)
	default:
		return CompareText(a.String(), b.String())
	}
}

// CompareText compares two strings case-insensitively with digit runs
// ordered by numeric value, so "v2" sorts before "v10".
func CompareText(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}
