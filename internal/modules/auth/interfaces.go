package auth

import (
	"context"

	"aiplus/internal/domain"
	"aiplus/internal/pkg/jwt"
)

// UserRepositoryInterface — only the methods the session service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByHandle(ctx context.Context, handle string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	UpdateFields(ctx context.Context, id string, updates map[string]any) error
}

// RefreshTokenRepositoryInterface — storage for refresh token records
type RefreshTokenRepositoryInterface interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	RevokeIfActive(ctx context.Context, id int64) (int64, error)
	RevokeByHash(ctx context.Context, hash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type PasswordHistoryInterface interface {
	Append(ctx context.Context, userID, passwordHash string) error
}

type tokenService interface {
	IssueAccessToken(userID, email, handle string) (string, error)
	IssueRefreshToken(userID, email, handle string) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}
