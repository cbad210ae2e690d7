package models

// RoleType defines the user role type
type RoleType string

const (
	// RoleAdmin is the only role. Every authenticated user holds it.
	RoleAdmin RoleType = "ADMIN"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	return r == RoleAdmin
}
