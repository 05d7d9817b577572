package auth

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrEmailTaken             = errors.New("email already registered")
	ErrHandleTaken            = errors.New("handle already taken")
	ErrPhoneTaken             = errors.New("phone number already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidPassword        = errors.New("invalid password")
	ErrAccountLocked          = errors.New("account locked")
	ErrAccountDeleted         = errors.New("account deleted")
	ErrAccountPendingDeletion = errors.New("account pending deletion")
	ErrNotVerified            = errors.New("identity verification incomplete")
	ErrSMSRequired            = errors.New("additional sms verification required")
	ErrInvalidSecret          = errors.New("invalid sms code")
	ErrSecretExpired          = errors.New("sms code expired")
	ErrUnauthenticated        = errors.New("unauthenticated")
)
