//go:build symdebug

package symbol

import "testing"

func TestEqualAcrossTablesPanics(t *testing.T) {
	a := NewTable().Intern("x")
	b := NewTable().Intern("x")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic comparing symbols from different tables")
		}
	}()
	a.Equal(b)
}
