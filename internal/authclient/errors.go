package authclient

import "errors"

var (
	// ErrInvalidCredentials is returned by Login when the backend rejects the
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPasswordMismatch is the local validation failure raised before any
	// reset-confirm request is built. It never reaches the transport.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrTokenInvalid is returned by ConfirmPasswordReset when the backend
	// rejects the reset token.
	ErrTokenInvalid = errors.New("password reset token invalid or expired")
)
