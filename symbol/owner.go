//go:build !symdebug

package symbol

type owner struct{}

func newOwner(*Table) owner { return owner{} }

func checkOwner(owner, owner) {}
