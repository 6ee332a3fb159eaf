package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRole distinguishes studio admins from client accounts
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleClient UserRole = "client"
)

// IsValidRole checks if a role value is valid
func IsValidRole(r string) bool {
	switch UserRole(r) {
	case RoleAdmin, RoleClient:
		return true
	}
	return false
}

// User represents an account: either a studio admin or a client that
// galleries can be assigned to
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never exposed
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser creates a new user account
func NewUser(username string, role UserRole) (*User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if !IsValidRole(string(role)) {
		return nil, ErrInvalidRole
	}

	return &User{
		ID:        uuid.New().String(),
		Username:  username,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetPassword hashes and sets the user's password using bcrypt (cost 12)
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks if the provided password matches the hash
// (constant-time via bcrypt)
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// User errors
type UserError struct {
	Message string
}

func (e UserError) Error() string {
	return e.Message
}

var (
	ErrEmptyUsername      = UserError{"username cannot be empty"}
	ErrInvalidRole        = UserError{"invalid user role"}
	ErrUserNotFound       = UserError{"user not found"}
	ErrUsernameExists     = UserError{"username already registered"}
	ErrPasswordTooShort   = UserError{"password must be at least 8 characters"}
	ErrInvalidCredentials = UserError{"invalid credentials"}
)
