package game

import "strings"

// Role is a tactical function tag.
type Role uint8

const (
	HazardSetter Role = iota
	HazardRemoval
	Pivot
	SpeedControl

	numRoles = 4
)

// NumRoles is the number of role categories.
const NumRoles = numRoles

var roleIDs = [numRoles]string{"hazard_setter", "hazard_removal", "pivot", "speed_control"}

var roleDisplay = [numRoles]string{"Hazard Setter", "Hazard Control", "Pivot", "Speed Control"}

// AllRoles returns the roles in canonical order.
func AllRoles() []Role {
	return []Role{HazardSetter, HazardRemoval, Pivot, SpeedControl}
}

func (r Role) String() string {
	if int(r) >= numRoles {
		return "unknown"
	}
	return roleIDs[r]
}

// DisplayName is the human-facing label used in explanations.
func (r Role) DisplayName() string {
	if int(r) >= numRoles {
		return "Unknown"
	}
	return roleDisplay[r]
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// RoleSet is a bit set over the four roles.
type RoleSet uint8

func (s RoleSet) Add(r Role) RoleSet {
	return s | 1<<r
}

func (s RoleSet) Has(r Role) bool {
	return s&(1<<r) != 0
}

func (s RoleSet) Union(o RoleSet) RoleSet {
	return s | o
}

// Difference returns roles in s that are not in o.
func (s RoleSet) Difference(o RoleSet) RoleSet {
	return s &^ o
}

func (s RoleSet) Len() int {
	n := 0
	for _, r := range AllRoles() {
		if s.Has(r) {
			n++
		}
	}
	return n
}

// Complete reports whether all four roles are present.
func (s RoleSet) Complete() bool {
	return s.Len() == numRoles
}

// Roles lists members in canonical order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, numRoles)
	for _, r := range AllRoles() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	parts := make([]string, 0, numRoles)
	for _, r := range s.Roles() {
		parts = append(parts, r.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
