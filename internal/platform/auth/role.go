package auth

import "fmt"

// Role is the closed set of user roles. A user holds exactly one role and it
// is immutable after registration; it is the sole authorization discriminant.
type Role string

const (
	RolePatient    Role = "Patient"
	RoleDoctor     Role = "Doctor"
	RolePharmacist Role = "Pharmacist"
	RoleAdmin      Role = "Admin"
)

// ParseRole validates a role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RolePharmacist, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }
