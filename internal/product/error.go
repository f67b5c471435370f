package product

import "errors"

var (
	ErrInvalidProductID = errors.New("invalid product id")
	ErrEmptySearchTerm  = errors.New("search term is required")
	ErrProductNotFound  = errors.New("product not found")
)
