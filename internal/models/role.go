package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleOwner Role = "OWNER"
)

var (
	ErrAlreadyAdmin = errors.New("user is already an admin")
	ErrAlreadyOwner = errors.New("user is already an owner")
	ErrNotAdmin     = errors.New("user is not an admin")
)

// ParseRole accepts any casing of the three known roles.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleOwner:
		return RoleOwner, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// IsPrivileged reports whether the role may moderate content.
func (r Role) IsPrivileged() bool {
	switch r {
	case RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// Promote returns the role a user holds after promotion from r.
func (r Role) Promote() (Role, error) {
	switch r {
	case RoleUser:
		return RoleAdmin, nil
	case RoleAdmin:
		return "", ErrAlreadyAdmin
	case RoleOwner:
		return "", ErrAlreadyOwner
	}
	return "", fmt.Errorf("unknown role %q", string(r))
}

// Demote returns the role a user holds after demotion from r. Only admins
// can be demoted; owners never are.
func (r Role) Demote() (Role, error) {
	switch r {
	case RoleAdmin:
		return RoleUser, nil
	case RoleUser, RoleOwner:
		return "", ErrNotAdmin
	}
	return "", fmt.Errorf("unknown role %q", string(r))
}
