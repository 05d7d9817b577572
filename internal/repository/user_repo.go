package repository

import (
	"context"
	"strings"

	"aiplus/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Where("handle = ?", strings.TrimSpace(handle)).First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

// GetByPhoneAndBirthDate backs the forgot-email flow: disclosure is gated
// on both factors matching exactly.
func (r *UserRepository) GetByPhoneAndBirthDate(ctx context.Context, phone, birthDate string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("phone_number = ? AND birth_date = ?", strings.TrimSpace(phone), strings.TrimSpace(birthDate)).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByEmailVerifyHash(ctx context.Context, hash string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Where("email_verify_hash = ?", hash).First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByHandleAndSMSHash(ctx context.Context, handle, hash string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("handle = ? AND sms_verify_hash = ?", strings.TrimSpace(handle), hash).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	return r.exists(ctx, "handle = ?", strings.TrimSpace(handle))
}

func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone_number = ?", strings.TrimSpace(phone))
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Where(query, arg).Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

// UpdateFields applies a partial update to one user row. Callers pass nil
// values to clear secret hash/expiry pairs after one-time use.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates).Error
}
