package handler

import (
	"net/http"
	"net/url"
	"strings"

	"shopcart-be/internal/response"

	"github.com/gin-gonic/gin"
)

// ListProducts handles GET /product/all
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.products.GetAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, "All products", products)
}

// GetProduct handles GET /product/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, "Product Details", p)
}

// SearchProducts handles GET /search
func (h *Handlers) SearchProducts(c *gin.Context) {
	products, err := h.products.Search(c.Request.Context(), searchTerm(c.Request))
	if err != nil {
		handleError(c, err)
		return
	}

	if len(products) == 0 {
		response.OK(c, "No products found", products)
		return
	}
	response.OK(c, "Search results", products)
}

// searchTerm accepts ?q=, ?query= or a bare query string such as ?blue.
func searchTerm(r *http.Request) string {
	q := r.URL.Query()
	for _, key := range []string{"q", "query"} {
		if v := q.Get(key); v != "" {
			return v
		}
	}

	raw := r.URL.RawQuery
	if raw == "" || strings.Contains(raw, "=") {
		return ""
	}
	term, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return term
}
