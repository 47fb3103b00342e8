package security

import "armory/pkg/roles"

// Access policy for base-scoped data. Admin sees and mutates everything; a
// commander is pinned to their assigned base; logistics is pinned for
// purchase writes but reads transfers freely.

// ScopeBaseFilter resolves the effective base filter for a listing. A
// commander with an assigned base always gets their own base, regardless of
// the caller-supplied filter.
func ScopeBaseFilter(actor Actor, requested *int) *int {
	if actor.Role == roles.Commander && actor.BaseID != nil {
		return actor.BaseID
	}
	return requested
}

// CanCreatePurchase reports whether the actor may record a purchase for the
// given base.
func CanCreatePurchase(actor Actor, baseID int) bool {
	switch actor.Role {
	case roles.Admin:
		return true
	case roles.Logistics:
		return actor.BaseID == nil || *actor.BaseID == baseID
	default:
		return false
	}
}

// CanCreateAssignment reports whether the actor may assign assets out of the
// given base.
func CanCreateAssignment(actor Actor, baseID int) bool {
	switch actor.Role {
	case roles.Admin:
		return true
	case roles.Commander:
		return actor.BaseID == nil || *actor.BaseID == baseID
	default:
		return false
	}
}

// CanCreateTransfer reports whether the actor may initiate a transfer
// between the two bases. A commander must be on one end of it.
func CanCreateTransfer(actor Actor, fromBaseID, toBaseID int) bool {
	if actor.Role == roles.Commander && actor.BaseID != nil {
		return *actor.BaseID == fromBaseID || *actor.BaseID == toBaseID
	}
	return true
}
