package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopcart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Search(ctx context.Context, term string) ([]Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = "id, name, description, price, available, created_at"

func (r *repository) GetAll(ctx context.Context) ([]Product, error) {
	return r.query(ctx, "GetAll",
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC, id",
	)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1",
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Available, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get product",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Search matches term as a case-insensitive substring of name or description.
func (r *repository) Search(ctx context.Context, term string) ([]Product, error) {
	pattern := "%" + escapeLike(term) + "%"
	return r.query(ctx, "Search",
		"SELECT "+productColumns+` FROM products
		WHERE name ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
		ORDER BY name`,
		pattern,
	)
}

func (r *repository) query(ctx context.Context, method, query string, args ...any) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
	)
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Available, &p.CreatedAt); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	log.Debug("query success",
		zap.Int("rows", len(products)),
		zap.Duration("duration", time.Since(start)),
	)
	return products, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
