package trace

import (
	"strconv"
	"strings"
)

// Address locates a statement as the sequence of child indices from the
// circuit's top-level block down to it. A loop contributes its own child
// index, and its body statements are indexed inside it, so the loop's count
// never shifts the addresses of its body.
type Address []int

// Clone returns an independent copy; addresses captured during a walk must
// not alias the walker's scratch slice.
func (a Address) Clone() Address {
	out := make(Address, len(a))
	copy(out, a)
	return out
}

func (a Address) Equal(b Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (a Address) String() string {
	if len(a) == 0 {
		return "."
	}
	parts := make([]string, len(a))
	for i, n := range a {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
