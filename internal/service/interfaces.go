package service

import (
	"context"

	"github.com/infutrix/backoffice-api/internal/domain"
)

// UserStore is the slice of the user repository the auth service needs.
// Lookups of absent users return an apperr NotFound.
type UserStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type AuthServiceInterface interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.SessionUser, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
}
