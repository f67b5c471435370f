package user

import (
	"context"
	"errors"
	"strings"

	"shopcart-be/internal/auth"
	"shopcart-be/internal/logger"

	"go.uber.org/zap"
)

// TokenIssuer mints access tokens for a subject id.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

type Service interface {
	SignUp(ctx context.Context, input Credentials) (*User, error)
	LogIn(ctx context.Context, input Credentials) (*LoginResult, error)
}

type service struct {
	repo   Repository
	tokens TokenIssuer
	hash   func(string) (string, error)
}

func NewService(repo Repository, tokens TokenIssuer) Service {
	return &service{repo: repo, tokens: tokens, hash: auth.HashPassword}
}

func (s *service) SignUp(ctx context.Context, input Credentials) (*User, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "service"), zap.String("method", "SignUp"))

	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidCredentialsInput
	}

	// Any lookup failure other than "not found" aborts the sign-up.
	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	hashed, err := s.hash(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	// The unique constraint settles concurrent sign-ups for the same name.
	u, err := s.repo.Create(ctx, username, hashed)
	if err != nil {
		return nil, err
	}

	log.Info("sign up completed", zap.String("user_id", u.ID.String()))
	return u, nil
}

func (s *service) LogIn(ctx context.Context, input Credentials) (*LoginResult, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "service"), zap.String("method", "LogIn"))

	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidCredentialsInput
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPasswordHash(input.Password, u.Password) {
		log.Info("password not match", zap.String("user_id", u.ID.String()))
		return nil, ErrIncorrectPassword
	}

	token, err := s.tokens.Issue(u.ID.String())
	if err != nil {
		log.Error("failed to issue token", zap.String("user_id", u.ID.String()), zap.Error(err))
		return nil, err
	}

	return &LoginResult{TokenType: TokenTypeBearer, AccessToken: token}, nil
}
