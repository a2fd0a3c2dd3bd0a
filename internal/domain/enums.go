package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"user": true, "admin": true,
}

// ParseRole converts a raw role string into a Role.
func ParseRole(s string) (Role, bool) {
	if !ValidRoles[s] {
		return "", false
	}
	return Role(s), true
}

type SessionState string

const (
	SessionOpen   SessionState = "open"
	SessionClosed SessionState = "closed"
)
