package domain

import "strings"

// UserRole enumerates supported roles. The role of a user is encoded in the
// prefix of its ID.
type UserRole string

const (
	UserRoleDonor     UserRole = "donor"
	UserRoleRecipient UserRole = "recipient"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == UserRoleDonor || r == UserRoleRecipient
}

// IDPrefix returns the prefix shared by every user ID of this role.
func (r UserRole) IDPrefix() string {
	return string(r) + "-"
}

// User represents a donor or a recipient.
type User struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
}

// Role derives the role from the ID prefix.
func (u User) Role() UserRole {
	return RoleOf(u.ID)
}

// HasRole reports whether the user belongs to role.
func (u User) HasRole(role UserRole) bool {
	return u.Role() == role
}

// RoleOf returns the role encoded in id, or an empty role when the prefix is
// not recognised.
func RoleOf(id string) UserRole {
	switch {
	case strings.HasPrefix(id, UserRoleDonor.IDPrefix()):
		return UserRoleDonor
	case strings.HasPrefix(id, UserRoleRecipient.IDPrefix()):
		return UserRoleRecipient
	}
	return ""
}
