package verification

import (
	"context"
	"errors"
	"strings"
	"time"

	"aiplus/internal/domain"
	"aiplus/internal/pkg/secrets"

	"gorm.io/gorm"
)

// Service confirms the channel secrets issued at registration. Each secret
// is single use: on success the hash and expiry are cleared together with
// flipping the verified flag.
type Service struct {
	users UserRepositoryInterface
}

func NewService(users UserRepositoryInterface) *Service {
	return &Service{users: users}
}

// ConfirmEmail resolves the account by the hash of the presented token.
// An unknown hash and a wrong token are the same case by construction, so
// both report ErrInvalidSecret; only a matching but stale secret reports
// ErrSecretExpired.
func (s *Service) ConfirmEmail(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetByEmailVerifyHash(ctx, secrets.Digest(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSecret
		}
		return nil, err
	}

	if user.EmailVerifyExpires == nil || time.Now().After(*user.EmailVerifyExpires) {
		return nil, ErrSecretExpired
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
		"email_verified":       true,
		"email_verify_hash":    nil,
		"email_verify_expires": nil,
	}); err != nil {
		return nil, err
	}

	user.EmailVerified = true
	user.EmailVerifyHash = nil
	user.EmailVerifyExpires = nil
	return user, nil
}

// ConfirmSMS resolves the account by handle plus code hash so a guessed
// code cannot land on someone else's row.
func (s *Service) ConfirmSMS(ctx context.Context, handle, code string) (*domain.User, error) {
	handle = strings.TrimSpace(handle)
	code = strings.TrimSpace(code)
	if handle == "" || code == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetByHandleAndSMSHash(ctx, handle, secrets.Digest(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSecret
		}
		return nil, err
	}

	if user.SMSVerifyExpires == nil || time.Now().After(*user.SMSVerifyExpires) {
		return nil, ErrSecretExpired
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
		"phone_verified":     true,
		"sms_verify_hash":    nil,
		"sms_verify_expires": nil,
	}); err != nil {
		return nil, err
	}

	user.PhoneVerified = true
	user.SMSVerifyHash = nil
	user.SMSVerifyExpires = nil
	return user, nil
}
