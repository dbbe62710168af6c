package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
)

// User is an account that can rent cars or operate the service.
type User struct {
	id           uuid.UUID
	email        string
	fullName     string
	passwordHash string
	role         auth.Role
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a User. The password must already be hashed.
func NewUser(email, fullName, passwordHash string, role auth.Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError("a valid email is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password is required")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("invalid role: " + string(role))
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		email:        email,
		fullName:     strings.TrimSpace(fullName),
		passwordHash: passwordHash,
		role:         role,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence.
func Reconstruct(id uuid.UUID, email, fullName, passwordHash string, role auth.Role, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		fullName:     fullName,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) FullName() string     { return u.fullName }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() auth.Role      { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
