package cart

import (
	"context"
	"errors"

	"shopcart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the cart operations available to an authenticated user.
type Service interface {
	CreateCart(ctx context.Context, userID uuid.UUID) (*Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartItem, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, input UpdateItemInput) (*CartItem, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	_, err := s.repo.GetByUser(ctx, userID)
	switch {
	case err == nil:
		return nil, ErrCartExists
	case !errors.Is(err, ErrCartNotFound):
		return nil, err
	}

	// A concurrent create loses on the unique constraint and gets ErrCartExists.
	return s.repo.Create(ctx, userID)
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: *c, Items: items}, nil
}

// AddItem adds quantity of a product to the caller's cart. Adding a product
// that is already present increments its quantity.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("user_id", userID.String()),
	)

	cartID, err := uuid.Parse(input.CartID)
	if err != nil {
		return nil, ErrInvalidCartID
	}
	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return nil, ErrInvalidProductID
	}
	if input.Quantity <= 0 || input.Quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.ID != cartID {
		log.Warn("cart does not belong to user", zap.String("cart_id", cartID.String()))
		return nil, ErrCartNotFound
	}

	return s.repo.UpsertItem(ctx, c.ID, productID, input.Quantity)
}

// UpdateItem replaces the stored quantity. It returns a nil item when the
// row was removed.
func (s *service) UpdateItem(ctx context.Context, userID uuid.UUID, input UpdateItemInput) (*CartItem, error) {
	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return nil, ErrInvalidProductID
	}
	if input.Quantity < 0 || input.Quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Quantity == 0 {
		return nil, s.repo.DeleteItem(ctx, c.ID, productID)
	}
	return s.repo.UpdateItemQuantity(ctx, c.ID, productID, input.Quantity)
}

func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	c, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	n, err := s.repo.ClearItems(ctx, c.ID)
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("cart cleared",
		zap.String("cart_id", c.ID.String()),
		zap.Int64("removed", n),
	)
	return nil
}
