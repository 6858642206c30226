package models

// Staff roles, from widest to narrowest set of permissions.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleSeller  = "seller"
	RoleCashier = "cashier"
)

// roleRank orders roles for the "at least" guard in the middleware.
var roleRank = map[string]int{
	RoleOwner:   4,
	RoleAdmin:   3,
	RoleSeller:  2,
	RoleCashier: 1,
}

// RoleAtLeast reports whether role grants everything required does.
func RoleAtLeast(role, required string) bool {
	return roleRank[role] >= roleRank[required]
}

// ValidRole reports whether role is one of the known staff roles.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

type User struct {
	ID       string `json:"user_id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role,omitempty"`
	Provider string `json:"provider,omitempty"`
	IsActive bool   `json:"is_active"`
}
