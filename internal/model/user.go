package model

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.  The column is free-form text,
// so every value read from the store goes through ParseRole.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a stored role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents an account record as stored in the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name chosen at registration.
//  Email        – unique email address, matched exactly as stored.
//  PasswordHash – bcrypt hash of the password.
//  Role         – customer or admin.
//  CreatedAt    – timestamp of registration.
type User struct {
	ID           int64     // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
}

// PublicUser is the part of a User that may leave the service.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Public strips the password hash.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
