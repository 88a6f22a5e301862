package domain

import "time"

// Role drives authorization for every helpdesk operation.
type Role string

const (
	RoleRegular Role = "REGULAR"
	RoleAgent   Role = "AGENT"
)

// ParseRole validates a role value coming from an untrusted source.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleRegular, RoleAgent:
		return Role(value), true
	}
	return "", false
}

// User is the domain model for everyone who signs in, regular users and
// agents alike. The role is fixed at registration.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAgent reports whether the user holds the agent role.
func (u *User) IsAgent() bool {
	return u != nil && u.Role == RoleAgent
}
