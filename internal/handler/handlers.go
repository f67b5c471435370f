package handler

import (
	"context"
	"errors"
	"net/http"

	"shopcart-be/internal/cart"
	"shopcart-be/internal/logger"
	"shopcart-be/internal/middleware"
	"shopcart-be/internal/order"
	"shopcart-be/internal/product"
	"shopcart-be/internal/response"
	"shopcart-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers holds all HTTP handlers for the shop API.
type Handlers struct {
	users    user.Service
	products product.Service
	carts    cart.Service
	orders   order.Service
	db       Pinger
}

func New(
	users user.Service,
	products product.Service,
	carts cart.Service,
	orders order.Service,
	db Pinger,
) *Handlers {
	return &Handlers{
		users:    users,
		products: products,
		carts:    carts,
		orders:   orders,
		db:       db,
	}
}

type errorMapping struct {
	err        error
	httpStatus int
	status     response.Status
	code       string
	msg        string
}

var errorMappings = []errorMapping{
	// -- Validation & Input --
	{err: user.ErrInvalidCredentialsInput, httpStatus: http.StatusBadRequest, status: response.StatusError, code: "bad_request"},
	{err: product.ErrInvalidProductID, httpStatus: http.StatusBadRequest, status: response.StatusError, code: "bad_request"},
	{err: product.ErrEmptySearchTerm, httpStatus: http.StatusBadRequest, status: response.StatusError, code: "bad_request"},
	{err: cart.ErrInvalidCartID, httpStatus: http.StatusBadRequest, status: response.StatusError, code: "bad_request"},
	{err: cart.ErrInvalidProductID, httpStatus: http.StatusBadRequest, status: response.StatusError, code: "bad_request"},
	{err: cart.ErrInvalidQuantity, httpStatus: http.StatusBadRequest, status: response.StatusError, code: "bad_request"},
	{err: order.ErrInvalidCartID, httpStatus: http.StatusBadRequest, status: response.StatusError, code: "bad_request"},
	{err: order.ErrEmptyCart, httpStatus: http.StatusBadRequest, status: response.StatusError, code: "empty_cart", msg: "Cart is empty or contains invalid items"},

	// -- Authentication --
	{err: user.ErrIncorrectPassword, httpStatus: http.StatusUnauthorized, status: response.StatusFailure, code: "unauthorized", msg: "Incorrect password"},

	// -- Not Found --
	{err: user.ErrUserNotFound, httpStatus: http.StatusNotFound, status: response.StatusError, code: "not_found"},
	{err: product.ErrProductNotFound, httpStatus: http.StatusNotFound, status: response.StatusError, code: "not_found"},
	{err: cart.ErrCartNotFound, httpStatus: http.StatusNotFound, status: response.StatusError, code: "not_found"},
	{err: cart.ErrCartItemNotFound, httpStatus: http.StatusNotFound, status: response.StatusError, code: "not_found"},
	{err: cart.ErrProductNotFound, httpStatus: http.StatusNotFound, status: response.StatusError, code: "not_found"},

	// -- Conflict --
	{err: user.ErrUsernameTaken, httpStatus: http.StatusConflict, status: response.StatusConflict, code: "conflict"},
	{err: cart.ErrCartExists, httpStatus: http.StatusConflict, status: response.StatusConflict, code: "conflict", msg: "Cart Already Exist"},
}

// handleError writes the envelope for err. Unmapped errors become a generic
// 500 and the cause is only logged.
func handleError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			msg := m.msg
			if msg == "" {
				msg = m.err.Error()
			}
			response.Abort(c, m.httpStatus, response.Fail(m.status, msg, m.code, ""))
			return
		}
	}

	_ = c.Error(err)
	logger.FromCtx(c.Request.Context()).Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	response.Abort(c, http.StatusInternalServerError,
		response.Fail(response.StatusError, "internal server error", "internal", ""))
}

func badRequest(c *gin.Context, msg string) {
	response.Abort(c, http.StatusBadRequest, response.Fail(response.StatusError, msg, "bad_request", ""))
}

// identity returns the caller set by middleware.RequireAuth.
func identity(c *gin.Context) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized,
			response.Fail(response.StatusFailure, "unauthorized", "unauthorized", ""))
	}
	return id, ok
}
