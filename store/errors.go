package store

import "errors"

// Domain error values the handlers translate to HTTP statuses.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("concurrent cart modification, retry")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 100")
	ErrMissingContact  = errors.New("name, phone and email are required at checkout")
	ErrEmptyCart       = errors.New("cart is empty")
)
