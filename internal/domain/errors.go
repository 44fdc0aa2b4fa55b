package domain

import "errors"

var (
	// ErrTokenInvalid covers missing, expired, revoked or unverifiable identity tokens.
	ErrTokenInvalid = errors.New("identity token invalid")
	// ErrInvalidCredential is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrProfileNotFound means an authenticated identity has no document in the partition read.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrRepositoryUnavailable wraps read/write failures against the profile repository.
	ErrRepositoryUnavailable = errors.New("profile repository unavailable")

	ErrCredentialNotFound = errors.New("credential not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidProfile     = errors.New("invalid profile update")
	ErrProviderDisabled   = errors.New("identity provider not configured")
)
