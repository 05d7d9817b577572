package domain

import "time"

// PasswordResetToken pairs the emailed reset link token with the SMS code
// issued alongside it. Both secrets are stored hashed and share one expiry;
// presenting either half proves possession of the matching channel, but
// resetting requires both. A user may hold several outstanding rows.
type PasswordResetToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID string `json:"user_id" gorm:"size:36;index;not null"`
	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	ResetHash string `json:"-" gorm:"size:64;index;not null"`
	SMSHash   string `json:"-" gorm:"size:64;not null"`

	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	UsedAt    *time.Time `json:"used_at"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }

func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *PasswordResetToken) IsUsed() bool {
	return t.UsedAt != nil
}

// PasswordHistoryEntry records a previously used password hash so a reset
// can refuse reuse of the most recent ones.
type PasswordHistoryEntry struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"size:36;index;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (PasswordHistoryEntry) TableName() string { return "password_history" }
