package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/soporteit/support-desk/internal/auth"
	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
	"github.com/soporteit/support-desk/pkg/util/validation"
)

// UserService manages staff accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// UserCreateInput describes a new account.
type UserCreateInput struct {
	Username string  `json:"username" validate:"required,max=50"`
	Password string  `json:"password" validate:"required,min=6"`
	FullName string  `json:"full_name" validate:"required,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     string  `json:"role"`
}

// UserPatch carries the fields to change. Nil fields are left untouched.
type UserPatch struct {
	Username *string `json:"username" validate:"omitempty,max=50"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// CreateUser stores a new account with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = trimOptional(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	role, err := parseRole(input.Role)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:       input.Username,
		PasswordHash:   hash,
		PasswordScheme: domain.PasswordSchemeBcrypt,
		FullName:       input.FullName,
		Email:          input.Email,
		Role:           role,
		Active:         true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, userError(err, 0)
	}
	return user, nil
}

// UpdateUser applies a partial patch. A new password is re-hashed.
func (s *UserService) UpdateUser(ctx context.Context, id int64, patch UserPatch) (*domain.User, error) {
	patch.Email = trimOptional(patch.Email)
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userError(err, id)
	}

	if patch.Username != nil {
		name := strings.TrimSpace(*patch.Username)
		if name == "" {
			return nil, apperrors.NewValidationError("validation failed", map[string]any{"username": "username is required"})
		}
		user.Username = name
	}
	if patch.FullName != nil {
		user.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.Email != nil {
		user.Email = patch.Email
	}
	if patch.Role != nil {
		role, err := parseRole(*patch.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
		user.PasswordScheme = domain.PasswordSchemeBcrypt
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, userError(err, id)
	}
	return user, nil
}

// DeleteUser removes an account. Callers cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return apperrors.NewForbidden("cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return userError(err, id)
	}
	return nil
}

// GetUser returns one account.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userError(err, id)
	}
	return user, nil
}

// ListUsers returns every account in creation order.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

func parseRole(raw string) (domain.Role, error) {
	role, ok := domain.ParseRole(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return "", apperrors.NewInvalidState("invalid role", map[string]any{
			"role":    raw,
			"allowed": []domain.Role{domain.RoleAdmin, domain.RoleTechnician},
		})
	}
	return role, nil
}

func userError(err error, id int64) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	case apperrors.IsUniqueViolation(err):
		return apperrors.NewConflict("username already exists", nil)
	default:
		return apperrors.MapError(err)
	}
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
