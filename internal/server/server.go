package server

import (
	"net/http"

	"shopcart-be/internal/config"
	"shopcart-be/internal/handler"
	"shopcart-be/internal/logger"
	"shopcart-be/internal/metrics"
	"shopcart-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the router needs. It is built once at startup and not
// mutated afterwards.
type Deps struct {
	Config   *config.Config
	Handlers *handler.Handlers
	Tokens   middleware.TokenVerifier
	Limiter  *middleware.Limiter
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	if d.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Forwarding headers are only honored from configured proxies.
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		logger.L().Warn("invalid TRUSTED_PROXIES, trusting none",
			zap.Strings("trusted_proxies", d.Config.TrustedProxies),
			zap.Error(err),
		)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		gin.Recovery(),
		logger.RequestID(),
		logger.AccessLog(),
		middleware.Metrics(),
		middleware.CORS(d.Config.CORSAllowedOrigins),
		middleware.RequestTimeout(d.Config.RequestTimeout),
	)

	h := d.Handlers
	general := d.Limiter.RateLimit(middleware.TierGeneral)
	strict := d.Limiter.RateLimit(middleware.TierStrict)
	requireAuth := middleware.RequireAuth(d.Tokens)

	// Operational
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Auth
	r.POST("/signUp", strict, h.SignUp)
	r.POST("/logIn", strict, h.LogIn)

	// Catalog
	r.GET("/product/all", general, h.ListProducts)
	r.GET("/product/:id", general, h.GetProduct)
	r.GET("/search", general, h.SearchProducts)

	// Cart and checkout
	authed := r.Group("/", requireAuth, general)
	{
		authed.GET("/create_cart", h.CreateCart)
		authed.GET("/myCart", h.MyCart)
		authed.POST("/addToCart", h.AddToCart)
		authed.GET("/flushCart", h.FlushCart)
		authed.GET("/removeItem-cart", h.RemoveCartItem)
		authed.GET("/checkout", h.Checkout)
	}

	return r
}

// NewHTTPServer wraps handler with the configured address and timeouts.
func NewHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}
}
