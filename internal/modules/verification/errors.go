package verification

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidSecret = errors.New("secret does not match")
	ErrSecretExpired = errors.New("secret expired")
	ErrUserNotFound  = errors.New("user not found")
)
