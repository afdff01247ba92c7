package services

import "errors"

// Girdi hataları, istek gönderilmeden önce döner.
var (
	ErrInvalidPage      = errors.New("page must be >= 1")
	ErrMissingProductID = errors.New("product id is required")
	ErrMissingItemID    = errors.New("cart item id is required")
	ErrInvalidQuantity  = errors.New("quantity must be >= 1")
)
