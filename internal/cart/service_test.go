package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cart), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cart), args.Error(1)
}

func (m *MockRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]CartItem, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CartItem), args.Error(1)
}

func (m *MockRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*CartItem, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*CartItem, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *MockRepository) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_CreateCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(nil, ErrCartNotFound).Once()
		repo.On("Create", ctx, userID).Return(&Cart{ID: uuid.New(), UserID: userID}, nil).Once()

		c, err := svc.CreateCart(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, c.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(&Cart{ID: uuid.New(), UserID: userID}, nil).Once()

		_, err := svc.CreateCart(ctx, userID)
		assert.ErrorIs(t, err, ErrCartExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RaceLostOnInsert", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(nil, ErrCartNotFound).Once()
		repo.On("Create", ctx, userID).Return(nil, ErrCartExists).Once()

		_, err := svc.CreateCart(ctx, userID)
		assert.ErrorIs(t, err, ErrCartExists)
	})

	t.Run("LookupError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(nil, errors.New("db down")).Once()

		_, err := svc.CreateCart(ctx, userID)
		assert.EqualError(t, err, "db down")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_GetCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	c := &Cart{ID: uuid.New(), UserID: userID}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(c, nil).Once()
		repo.On("ListItems", ctx, c.ID).Return([]CartItem{{Quantity: 2}}, nil).Once()

		view, err := svc.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, view.Cart.ID)
		assert.Len(t, view.Items, 1)
	})

	t.Run("NoCart", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(nil, ErrCartNotFound).Once()

		_, err := svc.GetCart(ctx, userID)
		assert.ErrorIs(t, err, ErrCartNotFound)
	})
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	c := &Cart{ID: uuid.New(), UserID: userID}
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(c, nil).Once()
		repo.On("UpsertItem", ctx, c.ID, productID, 2).
			Return(&CartItem{CartID: c.ID, ProductID: productID, Quantity: 2}, nil).Once()

		it, err := svc.AddItem(ctx, userID, AddItemInput{
			CartID: c.ID.String(), ProductID: productID.String(), Quantity: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, it.Quantity)
		repo.AssertExpectations(t)
	})

	t.Run("ForeignCart", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(c, nil).Once()

		_, err := svc.AddItem(ctx, userID, AddItemInput{
			CartID: uuid.NewString(), ProductID: productID.String(), Quantity: 1,
		})
		assert.ErrorIs(t, err, ErrCartNotFound)
		repo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	tests := []struct {
		name  string
		input AddItemInput
		want  error
	}{
		{"InvalidCartID", AddItemInput{CartID: "x", ProductID: productID.String(), Quantity: 1}, ErrInvalidCartID},
		{"InvalidProductID", AddItemInput{CartID: c.ID.String(), ProductID: "x", Quantity: 1}, ErrInvalidProductID},
		{"ZeroQuantity", AddItemInput{CartID: c.ID.String(), ProductID: productID.String(), Quantity: 0}, ErrInvalidQuantity},
		{"NegativeQuantity", AddItemInput{CartID: c.ID.String(), ProductID: productID.String(), Quantity: -1}, ErrInvalidQuantity},
		{"QuantityOverColumnLimit", AddItemInput{CartID: c.ID.String(), ProductID: productID.String(), Quantity: MaxQuantity + 1}, ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := NewService(repo)

			_, err := svc.AddItem(ctx, userID, tt.input)
			assert.ErrorIs(t, err, tt.want)
			repo.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
		})
	}
}

func TestService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	c := &Cart{ID: uuid.New(), UserID: userID}
	productID := uuid.New()

	t.Run("ZeroDeletes", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(c, nil).Once()
		repo.On("DeleteItem", ctx, c.ID, productID).Return(nil).Once()

		it, err := svc.UpdateItem(ctx, userID, UpdateItemInput{ProductID: productID.String(), Quantity: 0})
		require.NoError(t, err)
		assert.Nil(t, it)
		repo.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PositiveReplaces", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(c, nil).Once()
		repo.On("UpdateItemQuantity", ctx, c.ID, productID, 4).
			Return(&CartItem{ProductID: productID, Quantity: 4}, nil).Once()

		it, err := svc.UpdateItem(ctx, userID, UpdateItemInput{ProductID: productID.String(), Quantity: 4})
		require.NoError(t, err)
		assert.Equal(t, 4, it.Quantity)
	})

	t.Run("NotInCart", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(c, nil).Once()
		repo.On("DeleteItem", ctx, c.ID, productID).Return(ErrCartItemNotFound).Once()

		_, err := svc.UpdateItem(ctx, userID, UpdateItemInput{ProductID: productID.String()})
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("Negative", func(t *testing.T) {
		svc := NewService(new(MockRepository))

		_, err := svc.UpdateItem(ctx, userID, UpdateItemInput{ProductID: productID.String(), Quantity: -2})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("OverColumnLimit", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.UpdateItem(ctx, userID, UpdateItemInput{ProductID: productID.String(), Quantity: 3_000_000_000})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		repo.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
	})

	t.Run("NoCart", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(nil, ErrCartNotFound).Once()

		_, err := svc.UpdateItem(ctx, userID, UpdateItemInput{ProductID: productID.String(), Quantity: 1})
		assert.ErrorIs(t, err, ErrCartNotFound)
	})
}

func TestService_ClearCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("NoCartIsNoop", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByUser", ctx, userID).Return(nil, ErrCartNotFound).Once()

		assert.NoError(t, svc.ClearCart(ctx, userID))
		repo.AssertNotCalled(t, "ClearItems", mock.Anything, mock.Anything)
	})

	t.Run("Clears", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		c := &Cart{ID: uuid.New(), UserID: userID}

		repo.On("GetByUser", ctx, userID).Return(c, nil).Once()
		repo.On("ClearItems", ctx, c.ID).Return(int64(2), nil).Once()

		assert.NoError(t, svc.ClearCart(ctx, userID))
		repo.AssertExpectations(t)
	})

	t.Run("ClearError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		c := &Cart{ID: uuid.New(), UserID: userID}

		repo.On("GetByUser", ctx, userID).Return(c, nil).Once()
		repo.On("ClearItems", ctx, c.ID).Return(int64(0), errors.New("db error")).Once()

		assert.Error(t, svc.ClearCart(ctx, userID))
	})
}
