package order

import "errors"

var (
	ErrInvalidCartID = errors.New("invalid cart id")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrCheckout      = errors.New("checkout failed")
)
