package account

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"aiplus/internal/pkg/secrets"

	"gorm.io/gorm"
)

// deletionGracePeriod is how long a deleted account stays restorable
// before the scheduled purge.
const deletionGracePeriod = 30 * 24 * time.Hour

// Service handles the account lifecycle beyond sessions, currently the
// reversible soft deletion.
type Service struct {
	users         UserRepositoryInterface
	refreshTokens RefreshTokenRepositoryInterface
}

func NewService(users UserRepositoryInterface, refreshTokens RefreshTokenRepositoryInterface) *Service {
	return &Service{users: users, refreshTokens: refreshTokens}
}

// RequestDeletion soft-deletes the authenticated account. The caller
// re-states the handle so a stolen token alone cannot delete a different
// target, and re-enters the password. On success every refresh record is
// revoked; leaving live sessions on an account scheduled for purge is
// never acceptable, so a revocation failure is surfaced even though the
// timestamps were already written.
func (s *Service) RequestDeletion(ctx context.Context, userID, handle, password string) error {
	handle = strings.TrimSpace(handle)
	if handle == "" || password == "" {
		return ErrInvalidInput
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Handle != handle {
		return ErrForbidden
	}
	if !secrets.CheckPassword(password, user.PasswordHash) {
		return ErrInvalidPassword
	}

	now := time.Now()
	if user.DeleteRequestedAt != nil {
		return ErrAlreadyDeleted
	}

	purgeAt := now.Add(deletionGracePeriod)
	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
		"delete_requested_at": now,
		"deleted_at":          purgeAt,
	}); err != nil {
		return err
	}

	if err := s.refreshTokens.RevokeAllForUser(ctx, user.ID); err != nil {
		log.Printf("account: revoking sessions for %s after deletion request failed: %v", user.ID, err)
		return err
	}

	return nil
}
