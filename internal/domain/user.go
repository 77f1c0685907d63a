package domain

import "time"

// UserRole enumerates supported staff roles.
type UserRole string

const (
	UserRoleOfficer UserRole = "officer"
	UserRoleManager UserRole = "manager"
	UserRoleAdmin   UserRole = "admin"
)

// User represents an authenticated staff account within the CRM.
type User struct {
	ID        string
	GoogleSub string
	Email     string
	Name      string
	Picture   string
	Locale    string
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the role may read other users' activity logs.
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin || r == UserRoleManager
}

// IsAdmin reports whether the user may read other users' activity logs.
func (u User) IsAdmin() bool {
	return u.Role.IsAdmin()
}
