package auth

import "errors"

var (
	// -- Hashing --
	ErrHash = errors.New("failed to hash password")

	// -- Tokens --
	ErrMissingSecret = errors.New("token signing secret is not set")
	ErrEncode        = errors.New("failed to encode token")
	ErrInvalidToken  = errors.New("invalid token")
)
