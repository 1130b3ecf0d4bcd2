//go:build symdebug

package symbol

import "fmt"

type owner *Table

func newOwner(t *Table) owner { return t }

func checkOwner(a, b owner) {
	if a != b {
		panic(fmt.Sprintf("symbol: comparing symbols from different tables (%p, %p)", a, b))
	}
}
