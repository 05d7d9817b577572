package recovery

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidSecret   = errors.New("secret does not match")
	ErrSecretExpired   = errors.New("secret expired")
	ErrSecretUsed      = errors.New("secret already used")
	ErrPasswordReused  = errors.New("password was used recently")
	ErrDeliveryFailure = errors.New("delivery failure")
)
