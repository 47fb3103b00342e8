package roles

// Role is the access level carried in a user's token. Commander and
// logistics are peers with disjoint privileges rather than levels of one
// hierarchy, so checks are set-based.
type Role string

const (
	Admin     Role = "admin"
	Commander Role = "commander"
	Logistics Role = "logistics"
)

func (r Role) IsValid() bool {
	switch r {
	case Admin, Commander, Logistics:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// OneOf reports whether the role is in the allowed set.
func (r Role) OneOf(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
