package user

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"-"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

const TokenTypeBearer = "Bearer"

type LoginResult struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}
