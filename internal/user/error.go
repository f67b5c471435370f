package user

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidCredentialsInput = errors.New("username and password are required")

	// -- Resource State --
	ErrUsernameTaken = errors.New("user already exist with the name")
	ErrUserNotFound  = errors.New("user does not exist")

	// -- Authentication --
	ErrIncorrectPassword = errors.New("incorrect password")
)

const usernameUniqueConstraint = "users_username_key"
