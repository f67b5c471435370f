package order

import (
	"context"
	"fmt"
	"time"

	"shopcart-be/internal/cart"
	"shopcart-be/internal/logger"
	"shopcart-be/internal/metrics"
	"shopcart-be/internal/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const compensationTimeout = 10 * time.Second

// CartLookup resolves the cart owned by a user.
type CartLookup interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
}

type CheckoutConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*CheckoutResult, error)
}

type service struct {
	repo    Repository
	carts   CartLookup
	gateway payment.Gateway
	cfg     CheckoutConfig
}

func NewService(repo Repository, carts CartLookup, gateway payment.Gateway, cfg CheckoutConfig) Service {
	return &service{repo: repo, carts: carts, gateway: gateway, cfg: cfg}
}

// Checkout prices the caller's cart, opens a hosted checkout session and
// records a pending order for it. If the order cannot be stored the session
// is expired so it can no longer be paid.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*CheckoutResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("user_id", userID.String()),
	)

	c, err := s.resolveCart(ctx, userID, input.CartID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.CartLines(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		metrics.ObserveCheckout(metrics.CheckoutEmptyCart, 0)
		return nil, ErrEmptyCart
	}

	priced, total := PriceLines(lines)

	req := payment.SessionRequest{
		Currency:          s.cfg.Currency,
		SuccessURL:        s.cfg.SuccessURL,
		CancelURL:         s.cfg.CancelURL,
		ClientReferenceID: userID.String(),
		Metadata:          map[string]string{"cart_id": c.ID.String()},
		Lines:             make([]payment.LineItem, 0, len(priced)),
	}
	items := make([]OrderItem, 0, len(priced))
	for _, p := range priced {
		req.Lines = append(req.Lines, payment.LineItem{
			Name:       p.Name,
			UnitAmount: p.UnitAmount,
			Quantity:   int64(p.Quantity),
		})
		items = append(items, OrderItem{
			ProductID:  p.ProductID,
			Quantity:   p.Quantity,
			UnitAmount: p.UnitAmount,
		})
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		metrics.ObserveCheckout(metrics.CheckoutPaymentError, 0)
		return nil, fmt.Errorf("%w: %w", ErrCheckout, err)
	}

	o := &Order{
		UserID:      userID,
		PaymentID:   sess.ID,
		Status:      StatusPending,
		TotalAmount: total,
		Currency:    s.cfg.Currency,
		Items:       items,
	}
	if err := s.repo.CreateWithItems(ctx, o); err != nil {
		metrics.ObserveCheckout(metrics.CheckoutPersistError, 0)
		s.expireSession(ctx, sess.ID)
		return nil, fmt.Errorf("%w: %w", ErrCheckout, err)
	}

	metrics.ObserveCheckout(metrics.CheckoutSuccess, total)
	log.Info("checkout session opened",
		zap.String("order_id", o.ID.String()),
		zap.String("session_id", sess.ID),
		zap.Int64("total_amount", total),
	)

	return &CheckoutResult{
		CheckoutURL: sess.URL,
		OrderID:     o.ID,
		SessionID:   sess.ID,
		TotalAmount: total,
		Currency:    o.Currency,
	}, nil
}

func (s *service) resolveCart(ctx context.Context, userID uuid.UUID, rawCartID string) (*cart.Cart, error) {
	var requested uuid.UUID
	if rawCartID != "" {
		id, err := uuid.Parse(rawCartID)
		if err != nil {
			return nil, ErrInvalidCartID
		}
		requested = id
	}

	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if requested != uuid.Nil && requested != c.ID {
		logger.FromCtx(ctx).Warn("checkout for cart not owned by user",
			zap.String("user_id", userID.String()),
			zap.String("cart_id", requested.String()),
		)
		return nil, cart.ErrCartNotFound
	}
	return c, nil
}

// expireSession runs even when the request context is already done.
func (s *service) expireSession(ctx context.Context, sessionID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := s.gateway.ExpireCheckoutSession(ctx, sessionID); err != nil {
		logger.FromCtx(ctx).Error("failed to expire orphaned checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return
	}
	logger.FromCtx(ctx).Warn("expired checkout session after order insert failure",
		zap.String("session_id", sessionID),
	)
}
