package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopcart-be/internal/db"
	"shopcart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Create(ctx context.Context, userID uuid.UUID) (*Cart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]CartItem, error)
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*CartItem, error)
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const itemColumns = "id, cart_id, product_id, quantity, added_at"

func (r *repository) GetByUser(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at FROM shopping_cart WHERE user_id = $1",
		userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get cart",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("user_id", userID.String()),
	)

	var c Cart
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO shopping_cart (user_id) VALUES ($1) RETURNING id, user_id, created_at",
		userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt)

	if err != nil {
		if db.IsUniqueViolation(err, cartUserUniqueConstraint) {
			log.Warn("cart already exists")
			return nil, ErrCartExists
		}
		log.Error("db: failed to create cart", zap.Error(err))
		return nil, fmt.Errorf("create cart: %w", err)
	}

	log.Info("cart created", zap.String("cart_id", c.ID.String()))
	return &c, nil
}

func (r *repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListItems"),
		zap.String("cart_id", cartID.String()),
	)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM cart_items WHERE cart_id = $1 ORDER BY added_at, id",
		cartID,
	)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]CartItem, 0)
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

// UpsertItem inserts a product into the cart or adds quantity to the
// existing row for that product.
func (r *repository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertItem"),
		zap.String("cart_id", cartID.String()),
		zap.String("product_id", productID.String()),
	)

	var it CartItem
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING `+itemColumns,
		cartID, productID, quantity,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt)

	if err != nil {
		switch {
		case db.IsForeignKeyViolation(err):
			log.Warn("unknown product or cart", zap.Error(err))
			return nil, ErrProductNotFound
		case db.IsCheckViolation(err), db.IsNumericOutOfRange(err):
			log.Warn("quantity out of range", zap.Error(err))
			return nil, ErrInvalidQuantity
		}
		log.Error("db: failed to upsert cart item", zap.Error(err))
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	log.Debug("cart item saved", zap.Int("quantity", it.Quantity))
	return &it, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*CartItem, error) {
	var it CartItem
	err := r.db.QueryRowContext(ctx, `
		UPDATE cart_items
		SET quantity = $1
		WHERE cart_id = $2 AND product_id = $3
		RETURNING `+itemColumns,
		quantity, cartID, productID,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if db.IsCheckViolation(err) || db.IsNumericOutOfRange(err) {
		return nil, ErrInvalidQuantity
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to update cart item",
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return &it, nil
}

func (r *repository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2",
		cartID, productID,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to delete cart item",
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("delete cart item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cartID)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to clear cart",
			zap.String("cart_id", cartID.String()),
			zap.Error(err),
		)
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.RowsAffected()
}
