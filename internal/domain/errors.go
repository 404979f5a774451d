package domain

import "errors"

// Sentinel errors returned by the services. The REST layer maps each one
// to a response reason; anything else is flattened to ErrInternal so
// storage/transport details never leak to the client.

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrOTPMismatch       = errors.New("invalid otp")
	ErrOTPExpired        = errors.New("otp has expired")
	ErrNotVerified       = errors.New("email is not verified")
	ErrInvalidPassword   = errors.New("invalid email or password")
	ErrSendFailed        = errors.New("failed to send email")
	ErrInternal          = errors.New("internal error")
)
