package pantry

import "errors"

var (
	ErrNameRequired    = errors.New("item name is required")
	ErrNameTooLong     = errors.New("item name must be 200 characters or fewer")
	ErrInvalidCategory = errors.New("unknown pantry category")
	ErrInvalidStatus   = errors.New("status must be one of good, low, expiring")
	ErrItemNotFound    = errors.New("pantry item not found")
)
