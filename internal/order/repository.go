package order

import (
	"context"
	"database/sql"
	"fmt"

	"shopcart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	CartLines(ctx context.Context, cartID uuid.UUID) ([]CheckoutLine, error)
	CreateWithItems(ctx context.Context, o *Order) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CartLines(ctx context.Context, cartID uuid.UUID) ([]CheckoutLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CartLines"),
		zap.String("cart_id", cartID.String()),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.product_id, p.name, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at, ci.id`,
		cartID,
	)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []CheckoutLine
	for rows.Next() {
		var l CheckoutLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Price, &l.Quantity); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}
	return lines, nil
}

// CreateWithItems inserts the order and its items in one transaction and
// fills in the generated ids.
func (r *repository) CreateWithItems(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateWithItems"),
		zap.String("payment_id", o.PaymentID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin order tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, payment_id, status, total_amount, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		o.UserID, o.PaymentID, string(o.Status), o.TotalAmount, o.Currency,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			o.ID, item.ProductID, item.Quantity, item.UnitAmount,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return fmt.Errorf("commit order tx: %w", err)
	}

	committed = true
	log.Info("order created", zap.String("order_id", o.ID.String()))
	return nil
}
