package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shopcart-be/internal/logger"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

const defaultStripeTimeout = 15 * time.Second

type StripeConfig struct {
	SecretKey string
	Timeout   time.Duration

	// Optional overrides, used against a local backend in tests.
	HTTPClient *http.Client
	BaseURL    string
}

type stripeGateway struct {
	sc *client.API
}

// ----------------- Constructor -----------------

// NewStripeGateway builds a gateway whose client never retries, so a
// failed create is reported once and not replayed.
func NewStripeGateway(cfg StripeConfig) Gateway {
	if cfg.SecretKey == "" {
		logger.L().Warn("Stripe secret key is empty")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultStripeTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		LeveledLogger:     logger.L().Sugar(),
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripe.String(cfg.BaseURL)
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)
	sc := client.New(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &stripeGateway{sc: sc}
}

// ----------------- CreateCheckoutSession -----------------

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "payment"),
		zap.String("method", "CreateCheckoutSession"),
		zap.String("client_reference_id", req.ClientReferenceID),
		zap.Int("line_count", len(req.Lines)),
	)

	if len(req.Lines) == 0 {
		return nil, ErrNoLineItems
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		LineItems:          make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Lines)),
	}
	params.Context = ctx
	if req.ClientReferenceID != "" {
		params.ClientReferenceID = stripe.String(req.ClientReferenceID)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	for _, line := range req.Lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(line.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	sess, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		log.Error("stripe: failed to create checkout session", zap.Error(err))
		return nil, providerError(err)
	}

	log.Info("checkout session created", zap.String("session_id", sess.ID))
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// ----------------- ExpireCheckoutSession -----------------

func (g *stripeGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx

	if _, err := g.sc.CheckoutSessions.Expire(sessionID, params); err != nil {
		logger.FromCtx(ctx).Error("stripe: failed to expire checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return providerError(err)
	}
	return nil
}

func providerError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %s (status %d)", ErrProvider, stripeErr.Msg, stripeErr.HTTPStatusCode)
	}
	return fmt.Errorf("%w: %v", ErrProvider, err)
}
