package recovery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"aiplus/internal/domain"
	"aiplus/internal/pkg/secrets"
	"aiplus/internal/pkg/validation"

	"gorm.io/gorm"
)

// passwordHistoryDepth is how many previous hashes a reset is checked
// against. Matches the retention the reset flow promises users.
const passwordHistoryDepth = 3

// Service implements the recovery flows: password reset over two channels
// and masked email disclosure from phone plus birth date.
type Service struct {
	users    UserRepositoryInterface
	resets   ResetTokenRepositoryInterface
	history  PasswordHistoryInterface
	email    EmailSender
	sms      SMSSender
	resetTTL time.Duration
}

func NewService(
	users UserRepositoryInterface,
	resets ResetTokenRepositoryInterface,
	history PasswordHistoryInterface,
	email EmailSender,
	sms SMSSender,
	resetTTL time.Duration,
) *Service {
	return &Service{
		users:    users,
		resets:   resets,
		history:  history,
		email:    email,
		sms:      sms,
		resetTTL: resetTTL,
	}
}

// ForgotPassword issues a paired reset secret: a link token for the inbox
// and a numeric code for the phone. The record is persisted before either
// dispatch, so a delivery failure leaves an orphaned record that simply
// expires unused.
func (s *Service) ForgotPassword(ctx context.Context, email, baseURL string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validation.IsValidEmail(email) {
		return fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	resetToken, err := secrets.Token(16)
	if err != nil {
		return err
	}
	smsCode, err := secrets.NumericCode(6)
	if err != nil {
		return err
	}

	record := &domain.PasswordResetToken{
		UserID:    user.ID,
		ResetHash: secrets.Digest(resetToken),
		SMSHash:   secrets.Digest(smsCode),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, record); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", baseURL, url.QueryEscape(resetToken))

	if err := s.email.Send(ctx, user.Email,
		"[AIPLUS] Password reset",
		fmt.Sprintf("<p>Reset your password within 30 minutes:</p><p><a href=%q>%s</a></p><p>You will also need the code sent to your phone.</p>", resetURL, resetURL),
		fmt.Sprintf("Reset link: %s\nYou will also need the code sent to your phone.", resetURL),
	); err != nil {
		return fmt.Errorf("%w: email: %v", ErrDeliveryFailure, err)
	}
	if err := s.sms.Send(ctx, user.PhoneNumber,
		fmt.Sprintf("[AIPLUS] Password reset code: %s (valid 30 minutes)", smsCode)); err != nil {
		return fmt.Errorf("%w: sms: %v", ErrDeliveryFailure, err)
	}

	return nil
}

// ForgotEmail discloses a masked form of the on-file address when phone
// number and birth date both match. No secret is issued.
func (s *Service) ForgotEmail(ctx context.Context, phone, birthDate string) (string, error) {
	phone = strings.TrimSpace(phone)
	birthDate = strings.TrimSpace(birthDate)
	if phone == "" || birthDate == "" {
		return "", ErrInvalidInput
	}

	user, err := s.users.GetByPhoneAndBirthDate(ctx, phone, birthDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	return maskEmail(user.Email), nil
}

// ResetPassword consumes the paired secrets. Both halves must land on the
// same record, the record must be fresh and unused, and the new password
// must not repeat any of the last few.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	token := strings.TrimSpace(req.Token)
	code := strings.TrimSpace(req.Code)
	if token == "" || code == "" {
		return ErrInvalidInput
	}
	if !validation.ValidPassword(req.NewPassword) {
		return fmt.Errorf("%w: password needs 8+ characters with upper, lower and digit", ErrInvalidInput)
	}

	record, err := s.resets.GetByHashes(ctx, secrets.Digest(token), secrets.Digest(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidSecret
		}
		return err
	}

	if record.IsUsed() {
		return ErrSecretUsed
	}
	if record.IsExpired(time.Now()) {
		return ErrSecretExpired
	}

	recent, err := s.history.Recent(ctx, record.UserID, passwordHistoryDepth)
	if err != nil {
		return err
	}
	for _, oldHash := range recent {
		if secrets.CheckPassword(req.NewPassword, oldHash) {
			return ErrPasswordReused
		}
	}

	newHash, err := secrets.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdateFields(ctx, record.UserID, map[string]any{
		"password_hash": newHash,
	}); err != nil {
		return err
	}
	if err := s.history.Append(ctx, record.UserID, newHash); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, record.ID)
}

// maskEmail keeps the first characters of the local part and the whole
// domain: ab@example.com becomes ab***@example.com, a@example.com becomes
// a***@example.com.
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at:]
	prefix := local
	if len(local) > 2 {
		prefix = local[:2]
	}
	return prefix + "***" + domain
}
