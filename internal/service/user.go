package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pattarapk/storefront/internal/auth"
	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/repository"
)

// NewUser is admin-provided data for user creation
type NewUser struct {
	Username string
	Email    string
	Password string
	Role     string
	Phone    string
}

// UpdateUser is a partial user update, nil fields stay untouched
type UpdateUser struct {
	ID       string
	Username *string
	Email    *string
	Password *string
	Role     *string
	Phone    *string
	Active   *bool
}

// UserService is user administration behavior
type UserService interface {
	FindAll(ctx context.Context) ([]*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, nu NewUser) (*model.User, error)
	Update(ctx context.Context, uu UpdateUser) (*model.User, error)
	DeleteByID(ctx context.Context, id string) error
}

type userService struct {
	userRps     repository.UserRepository
	rfrTokenRps repository.RefreshTokenRepository
}

// NewUserService builds new UserService
func NewUserService(userRps repository.UserRepository, rfrTokenRps repository.RefreshTokenRepository) UserService {
	return &userService{userRps: userRps, rfrTokenRps: rfrTokenRps}
}

func (s *userService) FindAll(ctx context.Context) ([]*model.User, error) {
	return s.userRps.FindAll(ctx)
}

func (s *userService) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return u, nil
}

func (s *userService) Create(ctx context.Context, nu NewUser) (*model.User, error) {
	existing, err := s.userRps.FindByEmail(ctx, nu.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "email is already registered")
	}

	role := nu.Role
	if role == "" {
		role = string(auth.RoleUser)
	}
	if !auth.Role(role).Known() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	hash, err := auth.GeneratePasswordHash(nu.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: hash,
		Role:         role,
		Phone:        nu.Phone,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRps.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, uu UpdateUser) (*model.User, error) {
	u, err := s.FindByID(ctx, uu.ID)
	if err != nil {
		return nil, err
	}

	if uu.Username != nil {
		u.Username = *uu.Username
	}
	if uu.Email != nil {
		u.Email = *uu.Email
	}
	if uu.Password != nil {
		hash, err := auth.GeneratePasswordHash(*uu.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if uu.Role != nil {
		if !auth.Role(*uu.Role).Known() {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unknown role")
		}
		u.Role = *uu.Role
	}
	if uu.Phone != nil {
		u.Phone = *uu.Phone
	}
	if uu.Active != nil {
		u.Active = *uu.Active
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.userRps.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteByID removes the user and every refresh credential still bound to
// them, a deleted account must not keep live sessions
func (s *userService) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.rfrTokenRps.RevokeAllByUserID(ctx, id); err != nil {
		return err
	}
	return s.userRps.DeleteByID(ctx, id)
}
