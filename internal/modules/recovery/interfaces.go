package recovery

import (
	"context"

	"aiplus/internal/domain"
)

type UserRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhoneAndBirthDate(ctx context.Context, phone, birthDate string) (*domain.User, error)
	UpdateFields(ctx context.Context, id string, updates map[string]any) error
}

type ResetTokenRepositoryInterface interface {
	Create(ctx context.Context, t *domain.PasswordResetToken) error
	GetByHashes(ctx context.Context, resetHash, smsHash string) (*domain.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id int64) error
}

type PasswordHistoryInterface interface {
	Append(ctx context.Context, userID, passwordHash string) error
	Recent(ctx context.Context, userID string, limit int) ([]string, error)
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}
