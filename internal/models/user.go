package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

// UserRole represents the accepted roles for the system.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleField UserRole = "field"
)

// IsValid reports whether the role is one of the enumerated values.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleField
}

// MinPasswordLength is enforced before hashing.
const MinPasswordLength = 8

// User represents an authenticated operator stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SetPassword hashes and stores the raw password, rejecting short credentials.
func (u *User) SetPassword(raw string) error {
	if len(raw) < MinPasswordLength {
		return appErrors.Clone(appErrors.ErrValidation, "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword compares the raw password against the stored hash.
// A mismatch is a normal false outcome, never an error.
func (u *User) VerifyPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
