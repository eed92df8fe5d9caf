package domain

// SystemRole names the account types seeded at boot. They cannot be renamed
// or deleted.
type SystemRole string

const (
	RoleAdmin SystemRole = "Admin"
	RoleUser  SystemRole = "User"
)

// SystemRoles lists every seeded role in creation order.
var SystemRoles = []SystemRole{RoleAdmin, RoleUser}

func (r SystemRole) String() string { return string(r) }

// IsSystemRole reports whether name belongs to a seeded role.
func IsSystemRole(name string) bool {
	for _, r := range SystemRoles {
		if string(r) == name {
			return true
		}
	}
	return false
}

// Role is an account type. Exposed over HTTP as "account-types".
type Role struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Immutable bool   `json:"immutable"`
}
