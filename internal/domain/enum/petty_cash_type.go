package enum

// PettyCashType marks the direction of a manual cash movement.
// "in" adds cash to the drawer, "out" removes cash from it.
type PettyCashType string

const (
	PettyCashIn  PettyCashType = "in"
	PettyCashOut PettyCashType = "out"
)

// IsValid reports whether the movement direction is known.
func (p PettyCashType) IsValid() bool {
	return p == PettyCashIn || p == PettyCashOut
}
