package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
)

// UpdateRequest holds the replacement values for a user. A nil Password keeps
// the current one; a nil Role keeps the current role.
type UpdateRequest struct {
	Username string
	Email    string
	Password *string
	Role     *auth.Role
}

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, username, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	Update(ctx context.Context, identity auth.Identity, id int64, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, identity auth.Identity, id int64) error
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
	}
}

func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	cleanName := strings.TrimSpace(username)
	if cleanName == "" {
		return nil, ErrUsernameRequired
	}

	cleanEmail, err := validateEmail(email)
	if err != nil {
		return nil, err
	}

	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Self-registration never grants Admin.
	u := &User{
		Username:     cleanName,
		Email:        cleanEmail,
		PasswordHash: hash,
		Role:         auth.RoleUser,
	}

	// The unique index on email reports duplicates as ErrEmailAlreadyUsed.
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, identity auth.Identity, id int64, req UpdateRequest) (*User, error) {
	if !auth.Authorize(identity, id) {
		return nil, ErrPermissionDenied
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cleanName := strings.TrimSpace(req.Username)
	if cleanName == "" {
		return nil, ErrUsernameRequired
	}
	cleanEmail, err := validateEmail(req.Email)
	if err != nil {
		return nil, err
	}
	u.Username = cleanName
	u.Email = cleanEmail

	if req.Role != nil && *req.Role != u.Role {
		if !req.Role.Valid() {
			return nil, ErrInvalidRole
		}
		if !identity.IsAdmin() {
			return nil, ErrRoleChangeDenied
		}
		u.Role = *req.Role
	}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	if !auth.Authorize(identity, id) {
		return ErrPermissionDenied
	}
	// Bookings of the user and their car associations go with it (ON DELETE CASCADE).
	return s.repo.Delete(ctx, id)
}

func validateEmail(email string) (string, error) {
	clean := normalizeEmail(email)
	if err := fieldValidator.Var(clean, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	return clean, nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
