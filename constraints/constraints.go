// Package constraints defines the type-set constraints used by the generic
// helpers in this module.
package constraints

import (
	"golang.org/x/exp/constraints"
)

type Integer = constraints.Integer
type Ordered = constraints.Ordered
