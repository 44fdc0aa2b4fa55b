package domain

import "strings"

// Role enumerates the four mutually exclusive portal roles.
type Role string

const (
	RoleNone         Role = ""
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
	RolePharmacist   Role = "pharmacist"
)

// Collection names a role partition of the profile repository.
type Collection string

const (
	CollectionAdmins        Collection = "admins"
	CollectionDoctors       Collection = "doctors"
	CollectionReceptionists Collection = "receptionists"
	CollectionPharmacists   Collection = "pharmacists"
)

// ResolutionOrder is the fixed priority in which partitions are probed.
// A subject present in several partitions resolves to the earliest one.
var ResolutionOrder = []Role{RoleAdmin, RoleDoctor, RoleReceptionist, RolePharmacist}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleReceptionist, RolePharmacist:
		return true
	}
	return false
}

// Collection returns the partition holding profiles for r.
func (r Role) Collection() Collection {
	switch r {
	case RoleAdmin:
		return CollectionAdmins
	case RoleDoctor:
		return CollectionDoctors
	case RoleReceptionist:
		return CollectionReceptionists
	case RolePharmacist:
		return CollectionPharmacists
	}
	return ""
}

// Role returns the role whose partition is c.
func (c Collection) Role() Role {
	for _, r := range ResolutionOrder {
		if r.Collection() == c {
			return r
		}
	}
	return RoleNone
}

// ParseRole accepts role tags case-insensitively and returns RoleNone for anything unknown.
func ParseRole(raw string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return RoleNone
	}
	return r
}
