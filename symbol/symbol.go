// Package symbol interns text so that equal strings share one handle and
// compare by identity.
package symbol

import "strings"

type entry struct {
	owner owner
	text  string
}

// Symbol is a handle to text owned by a Table. Two Symbols are equal iff they
// were minted for the same text by the same Table, so == on Symbol values is
// an identity comparison and never looks at the characters.
type Symbol struct {
	e *entry
}

// String returns the interned text.
func (s Symbol) String() string {
	if s.e == nil {
		return ""
	}
	return s.e.text
}

// IsZero reports whether s was never produced by a Table.
func (s Symbol) IsZero() bool {
	return s.e == nil
}

// Equal compares by identity. Symbols from different tables are a usage
// error; builds tagged symdebug panic on it.
func (s Symbol) Equal(other Symbol) bool {
	if s.e != nil && other.e != nil {
		checkOwner(s.e.owner, other.e.owner)
	}
	return s.e == other.e
}

// Table maps text to its Symbol. It only grows. It is not safe for
// concurrent use; callers sharing a Table must serialize access.
type Table struct {
	symbols map[string]*entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{symbols: make(map[string]*entry)}
}

// Intern returns the Symbol for text, storing a private copy the first time
// text is seen.
func (t *Table) Intern(text string) Symbol {
	if e, ok := t.symbols[text]; ok {
		return Symbol{e: e}
	}
	owned := strings.Clone(text)
	e := &entry{owner: newOwner(t), text: owned}
	t.symbols[owned] = e
	return Symbol{e: e}
}

// IsInterned reports whether text already has a Symbol in t.
func (t *Table) IsInterned(text string) bool {
	_, ok := t.symbols[text]
	return ok
}

// Len returns the number of distinct texts interned.
func (t *Table) Len() int {
	return len(t.symbols)
}
