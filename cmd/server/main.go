package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopcart-be/internal/auth"
	"shopcart-be/internal/cart"
	"shopcart-be/internal/config"
	"shopcart-be/internal/db"
	"shopcart-be/internal/handler"
	"shopcart-be/internal/logger"
	"shopcart-be/internal/middleware"
	"shopcart-be/internal/order"
	"shopcart-be/internal/payment"
	"shopcart-be/internal/product"
	"shopcart-be/internal/server"
	"shopcart-be/internal/user"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewLimiter()
	go limiter.Run(ctx)

	srv := server.NewHTTPServer(cfg, newServer(cfg, database, limiter))

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// newServer wires repositories, services and the payment gateway into the
// HTTP router.
func newServer(cfg *config.Config, database *sql.DB, limiter *middleware.Limiter) http.Handler {
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	gateway := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey: cfg.StripeSecret,
		Timeout:   cfg.PaymentTimeout,
	})

	userSvc := user.NewService(user.NewRepository(database), tokens)
	productSvc := product.NewService(product.NewRepository(database))

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo)

	orderSvc := order.NewService(order.NewRepository(database), cartRepo, gateway, order.CheckoutConfig{
		Currency:   cfg.CheckoutCurrency,
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	})

	return server.NewRouter(server.Deps{
		Config:   cfg,
		Handlers: handler.New(userSvc, productSvc, cartSvc, orderSvc, database),
		Tokens:   tokens,
		Limiter:  limiter,
	})
}
