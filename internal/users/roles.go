package users

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleManager  Role = "MANAGER"
	RoleCashier  Role = "CASHIER"
)

// IsValidRole checks if the role string names a known role
func IsValidRole(role string) bool {
	switch role {
	case string(RoleCustomer), string(RoleManager), string(RoleCashier):
		return true
	default:
		return false
	}
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}
