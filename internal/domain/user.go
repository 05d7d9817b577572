package domain

import "time"

// User is an AIPLUS account. Verification secrets (email token, SMS code,
// login step-up code) are stored hashed on the row together with their
// expiry; the raw secret only ever travels to the user's inbox or phone.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	Handle       string `json:"handle" gorm:"uniqueIndex;size:20;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PhoneNumber  string `json:"phone_number" gorm:"uniqueIndex;not null"`
	BirthDate    string `json:"birth_date"`
	PasswordHash string `json:"-"`

	EmailVerified       bool       `json:"email_verified"`
	PhoneVerified       bool       `json:"phone_verified"`
	EmailVerifyHash     *string    `json:"-" gorm:"size:64;index"`
	EmailVerifyExpires  *time.Time `json:"-"`
	SMSVerifyHash       *string    `json:"-" gorm:"size:64"`
	SMSVerifyExpires    *time.Time `json:"-"`
	LoginSMSHash        *string    `json:"-" gorm:"size:64"`
	LoginSMSExpires     *time.Time `json:"-"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginIP         string     `json:"-"`
	LastLoginAt         *time.Time `json:"-"`

	// Soft deletion. DeleteRequestedAt is when the user asked to leave,
	// DeletedAt is the scheduled purge 30 days later. While now is between
	// the two the account is restorable by a timestamp comparison.
	DeleteRequestedAt *time.Time `json:"-"`
	DeletedAt         *time.Time `json:"-" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsDeleted(now time.Time) bool {
	return u.DeletedAt != nil && !u.DeletedAt.After(now)
}

func (u *User) IsPendingDeletion(now time.Time) bool {
	return u.DeleteRequestedAt != nil && u.DeletedAt != nil && u.DeletedAt.After(now)
}

func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
