package repository

import (
	"context"

	"aiplus/internal/domain"

	"gorm.io/gorm"
)

type PasswordHistoryRepository struct {
	db *gorm.DB
}

func NewPasswordHistoryRepository(db *gorm.DB) *PasswordHistoryRepository {
	return &PasswordHistoryRepository{db: db}
}

func (r *PasswordHistoryRepository) Append(ctx context.Context, userID, passwordHash string) error {
	return r.db.WithContext(ctx).Create(&domain.PasswordHistoryEntry{
		UserID:       userID,
		PasswordHash: passwordHash,
	}).Error
}

// Recent returns the newest limit hashes for a user, newest first.
func (r *PasswordHistoryRepository) Recent(ctx context.Context, userID string, limit int) ([]string, error) {
	var entries []domain.PasswordHistoryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	hashes := make([]string, 0, len(entries))
	for _, e := range entries {
		hashes = append(hashes, e.PasswordHash)
	}
	return hashes, nil
}
