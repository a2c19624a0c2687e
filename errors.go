package authkit

import "errors"

var (
	// ErrUnauthenticated is an exported constant or variable used by the authentication engine.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound is an exported constant or variable used by the authentication engine.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount is an exported constant or variable used by the authentication engine.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrAccountUnverified is an exported constant or variable used by the authentication engine.
	ErrAccountUnverified = errors.New("account unverified")
	// ErrAccountAlreadyVerified is an exported constant or variable used by the authentication engine.
	ErrAccountAlreadyVerified = errors.New("account already verified")
	// ErrOTPInvalid is an exported constant or variable used by the authentication engine.
	ErrOTPInvalid = errors.New("invalid otp code")
	// ErrOTPExpired is an exported constant or variable used by the authentication engine.
	ErrOTPExpired = errors.New("otp code expired")
	// ErrOTPAttemptsExceeded is an exported constant or variable used by the authentication engine.
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
	// ErrOTPUnavailable is an exported constant or variable used by the authentication engine.
	ErrOTPUnavailable = errors.New("otp backend unavailable")
	// ErrResetTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
	// ErrResetUnavailable is an exported constant or variable used by the authentication engine.
	ErrResetUnavailable = errors.New("password reset backend unavailable")
	// ErrRevocationUnavailable is an exported constant or variable used by the authentication engine.
	ErrRevocationUnavailable = errors.New("revocation backend unavailable")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrPasswordPolicy is an exported constant or variable used by the authentication engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrPasswordReuse is an exported constant or variable used by the authentication engine.
	ErrPasswordReuse = errors.New("new password must be different from current password")
	// ErrNameInvalid is an exported constant or variable used by the authentication engine.
	ErrNameInvalid = errors.New("invalid display name")
	// ErrEmailInvalid is an exported constant or variable used by the authentication engine.
	ErrEmailInvalid = errors.New("invalid email address")
	// ErrMailerUnavailable is an exported constant or variable used by the authentication engine.
	ErrMailerUnavailable = errors.New("mail dispatch failed")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
