package domain

// Role is a user's access level. Roles form a strict hierarchy:
// customer < staff < manager < admin.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var roleRank = map[Role]int{
	RoleCustomer: 1,
	RoleStaff:    2,
	RoleManager:  3,
	RoleAdmin:    4,
}

// Roles returns every known role from lowest to highest.
func Roles() []Role {
	return []Role{RoleCustomer, RoleStaff, RoleManager, RoleAdmin}
}

// Rank orders roles. Unknown roles rank 0, below customer.
func (r Role) Rank() int {
	return roleRank[r]
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// Allows reports whether a caller holding role meets the minimum r. It has the
// signature middleware.RequireRole expects, e.g. RequireRole(RoleStaff.Allows).
func (r Role) Allows(role string) bool {
	actual := Role(role)
	return actual.Valid() && actual.Rank() >= r.Rank()
}

// IsBackOffice reports whether the role may use the admin panel at all.
func (r Role) IsBackOffice() bool {
	return RoleStaff.Allows(string(r))
}
