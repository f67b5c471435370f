package handler

import (
	"errors"
	"io"

	"shopcart-be/internal/cart"
	"shopcart-be/internal/response"

	"github.com/gin-gonic/gin"
)

// CreateCart handles GET /create_cart
func (h *Handlers) CreateCart(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	created, err := h.carts.CreateCart(c.Request.Context(), id.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, "Cart Created Successfully", created)
}

// MyCart handles GET /myCart
func (h *Handlers) MyCart(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	view, err := h.carts.GetCart(c.Request.Context(), id.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, "All cart items", view)
}

// AddToCart handles POST /addToCart
func (h *Handlers) AddToCart(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req cart.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	item, err := h.carts.AddItem(c.Request.Context(), id.UserID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, "Item added to the cart successfully", item)
}

// FlushCart handles GET /flushCart
func (h *Handlers) FlushCart(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	if err := h.carts.ClearCart(c.Request.Context(), id.UserID); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, "Cart cleaned successfully", nil)
}

type updateItemRequest struct {
	CartID    string `form:"cart_id" json:"cart_id"`
	ProductID string `form:"product_id" json:"product_id"`
	Quantity  *int   `form:"quantity" json:"quantity"`
}

// RemoveCartItem handles GET /removeItem-cart. Parameters come from the
// query string, or from a JSON body when the query has none.
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	if req.ProductID == "" && req.Quantity == nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, "invalid request body")
			return
		}
	}
	if req.ProductID == "" || req.Quantity == nil {
		badRequest(c, "product_id and quantity are required")
		return
	}

	item, err := h.carts.UpdateItem(c.Request.Context(), id.UserID, cart.UpdateItemInput{
		ProductID: req.ProductID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	if item == nil {
		response.OK(c, "Product removed from cart", nil)
		return
	}
	response.OK(c, "Product quantity updated", item)
}
