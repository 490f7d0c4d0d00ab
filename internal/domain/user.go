package domain

// Role represents the role of an authenticated user.
type Role string

// List of possible user roles
const (
	RoleClient  Role = "client"
	RoleCourier Role = "courier"
	RoleAdmin   Role = "admin"
)

var allowedRoles = [...]Role{RoleClient, RoleCourier, RoleAdmin}

// Valid checks if the Role is valid
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User represents an authenticated marketplace user.
type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Role      Role
	IsActive  bool
}
