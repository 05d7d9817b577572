package account

import (
	"context"

	"aiplus/internal/domain"
)

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateFields(ctx context.Context, id string, updates map[string]any) error
}

type RefreshTokenRepositoryInterface interface {
	RevokeAllForUser(ctx context.Context, userID string) error
}
