package verification

import (
	"context"

	"aiplus/internal/domain"
)

type UserRepositoryInterface interface {
	GetByEmailVerifyHash(ctx context.Context, hash string) (*domain.User, error)
	GetByHandleAndSMSHash(ctx context.Context, handle, hash string) (*domain.User, error)
	UpdateFields(ctx context.Context, id string, updates map[string]any) error
}
