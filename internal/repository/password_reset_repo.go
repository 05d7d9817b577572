package repository

import (
	"context"
	"time"

	"aiplus/internal/domain"

	"gorm.io/gorm"
)

// PasswordResetTokenRepository stores the paired reset-link/SMS-code
// records. Validity is decided per record by hash match plus expiry; there
// is no uniqueness constraint across a user's outstanding records.
type PasswordResetTokenRepository struct {
	db *gorm.DB
}

func NewPasswordResetTokenRepository(db *gorm.DB) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: db}
}

func (r *PasswordResetTokenRepository) Create(ctx context.Context, t *domain.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// GetByHashes requires both halves of the pair to match the same record.
func (r *PasswordResetTokenRepository) GetByHashes(ctx context.Context, resetHash, smsHash string) (*domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("reset_hash = ? AND sms_hash = ?", resetHash, smsHash).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PasswordResetTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used_at", now).Error
}

// DeleteStale removes records that can never be consumed again, either
// expired or already used.
func (r *PasswordResetTokenRepository) DeleteStale(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", now).
		Delete(&domain.PasswordResetToken{})
	return tx.RowsAffected, tx.Error
}
