package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role a user holds in the system. Roles are a
// closed set; authorization decisions are made against them through the
// AuthorizationPolicy capability, never by inspecting user records directly.
type UserRole string

// Possible user roles.
const (
	// RoleVolunteer may join and leave other users' tasks.
	RoleVolunteer UserRole = "volunteer"
	// RoleAuthor may post tasks. Authors also hold volunteer eligibility
	// for tasks they did not create.
	RoleAuthor UserRole = "author"
	// RoleAdmin may manage categories and cancel any task.
	RoleAdmin UserRole = "admin"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyDisplayName    = errors.New("display name cannot be empty")
	ErrInvalidUserRole     = errors.New("invalid user role")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the microvolunteer platform.
// A user may simultaneously be the creator of some tasks and a volunteer on
// others; what they may do to a given task is decided per-task.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Role           UserRole  `json:"role"`
	Password       string    `json:"-"` // Plaintext, only set transiently during registration
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email, display name, role and
// plaintext password. The caller is responsible for hashing the password
// before storing the user. Returns an error if validation fails.
func NewUser(email, displayName, password string, role UserRole) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		Password:    password,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.DisplayName == "" {
		return ErrEmptyDisplayName
	}

	if !isValidUserRole(u.Role) {
		return ErrInvalidUserRole
	}

	if u.Password != "" {
		if len(u.Password) < 12 {
			return ErrPasswordTooShort
		}
		// bcrypt truncates input beyond 72 bytes
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// isValidUserRole checks if the given role is a valid UserRole.
func isValidUserRole(role UserRole) bool {
	switch role {
	case RoleVolunteer, RoleAuthor, RoleAdmin:
		return true
	default:
		return false
	}
}

// validateEmailFormat performs basic validation of email format.
// Intentionally simple; real deliverability checks belong to the mail layer.
func validateEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
