package handler

import (
	"net/http"

	"shopcart-be/internal/response"
	"shopcart-be/internal/user"

	"github.com/gin-gonic/gin"
)

// SignUp handles POST /signUp
func (h *Handlers) SignUp(c *gin.Context) {
	var req user.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if _, err := h.users.SignUp(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}

	c.String(http.StatusOK, "User Created Successfully")
}

// LogIn handles POST /logIn
func (h *Handlers) LogIn(c *gin.Context) {
	var req user.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	res, err := h.users.LogIn(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, "User logged in successfully", res)
}
