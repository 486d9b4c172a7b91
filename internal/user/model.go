package user

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInvalidEmail       = apperror.New(http.StatusBadRequest, "invalid email format")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "invalid password format. password should have at least 6 characters")
	ErrUsernameRequired   = apperror.New(http.StatusBadRequest, "username is required")
	ErrInvalidRole        = apperror.New(http.StatusBadRequest, "invalid role")
	ErrRoleChangeDenied   = apperror.New(http.StatusForbidden, "only admins can change roles")
	ErrPermissionDenied   = apperror.New(http.StatusForbidden, "unauthorized: user is not an admin")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// fieldValidator checks service inputs with the same rules as the HTTP binding tags.
var fieldValidator = validator.New()

// User represents a user in the system.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         auth.Role
	CreatedAt    time.Time
}

// Identity returns the token identity for u.
func (u *User) Identity() auth.Identity {
	return auth.Identity{UserID: u.ID, Role: u.Role}
}

// Filter defines filter options for listing users.
type Filter struct {
	Email    string
	Username string
	Role     auth.Role

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
