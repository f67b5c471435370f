package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopcart-be/internal/db"
	"shopcart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("username", username),
	)

	var u User
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id, username, password",
		username, passwordHash,
	).Scan(&u.ID, &u.Username, &u.Password)

	if err != nil {
		if db.IsUniqueViolation(err, usernameUniqueConstraint) {
			log.Warn("username already taken")
			return nil, ErrUsernameTaken
		}
		log.Error("db: failed to insert user", zap.Error(err))
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &u, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password FROM users WHERE username = $1",
		username,
	).Scan(&u.ID, &u.Username, &u.Password)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to find user",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &u, nil
}
