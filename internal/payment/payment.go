package payment

import (
	"context"
	"errors"
)

var (
	ErrNoLineItems = errors.New("checkout session requires at least one line item")
	ErrProvider    = errors.New("payment provider error")
)

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error)
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}
