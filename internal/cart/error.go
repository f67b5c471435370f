package cart

import (
	"errors"
	"math"
)

var (
	// -- Validation & Input --
	ErrInvalidCartID    = errors.New("invalid cart id")
	ErrInvalidProductID = errors.New("invalid product id")
	ErrInvalidQuantity  = errors.New("invalid cart quantity")

	// -- Resource State --
	ErrCartExists       = errors.New("cart already exists")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("product not found in cart")
	ErrProductNotFound  = errors.New("product not found")
)

const (
	cartUserUniqueConstraint = "shopping_cart_user_id_key"

	// MaxQuantity is the largest value the cart_items.quantity column holds.
	MaxQuantity = math.MaxInt32
)
