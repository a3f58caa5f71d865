package entity

// Account roles. Kept as a small closed set; stored as text on users.role.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether the given role is one of the known account types.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
