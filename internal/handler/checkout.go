package handler

import (
	"errors"
	"io"

	"shopcart-be/internal/order"
	"shopcart-be/internal/response"

	"github.com/gin-gonic/gin"
)

// Checkout handles GET /checkout
func (h *Handlers) Checkout(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req order.CheckoutInput
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	if req.CartID == "" {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, "invalid request body")
			return
		}
	}

	res, err := h.orders.Checkout(c.Request.Context(), id.UserID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, "Redirect the URL to pay", res)
}
