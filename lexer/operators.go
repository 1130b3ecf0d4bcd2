package lexer

import (
	"slices"
	"sort"
	"unicode/utf8"
)

// Operators is the set of operator spellings the tokenizer recognises. It
// keeps spellings in lexicographic order and may be changed between calls to
// Tokenizer.Next. It is not safe for concurrent use.
type Operators struct {
	spellings []string
	lengths   []int // distinct byte lengths, longest first
}

// NewOperators returns a registry holding the given spellings.
func NewOperators(spellings ...string) *Operators {
	ops := &Operators{}
	for _, s := range spellings {
		ops.Register(s)
	}
	return ops
}

// Register adds spelling. Registering a spelling twice, the empty spelling
// or a spelling that is not valid UTF-8 does nothing.
func (o *Operators) Register(spelling string) {
	if spelling == "" || !utf8.ValidString(spelling) {
		return
	}
	i, found := slices.BinarySearch(o.spellings, spelling)
	if found {
		return
	}
	o.spellings = slices.Insert(o.spellings, i, spelling)

	n := len(spelling)
	j := sort.Search(len(o.lengths), func(k int) bool { return o.lengths[k] <= n })
	if j < len(o.lengths) && o.lengths[j] == n {
		return
	}
	o.lengths = slices.Insert(o.lengths, j, n)
}

// Contains reports whether spelling is registered.
func (o *Operators) Contains(spelling string) bool {
	_, found := slices.BinarySearch(o.spellings, spelling)
	return found
}

// LongestMatch returns the longest registered spelling that is a prefix of
// rest.
func (o *Operators) LongestMatch(rest string) (string, bool) {
	for _, n := range o.lengths {
		if n > len(rest) {
			continue
		}
		if o.Contains(rest[:n]) {
			return rest[:n], true
		}
	}
	return "", false
}

// Spellings returns the registered spellings in lexicographic order.
func (o *Operators) Spellings() []string {
	return slices.Clone(o.spellings)
}

// Len returns the number of registered spellings.
func (o *Operators) Len() int {
	return len(o.spellings)
}
