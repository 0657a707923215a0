package recipe

import "errors"

// Domain errors
var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrOwnerRequired  = errors.New("recipe owner is required")
	ErrTitleRequired  = errors.New("title is required")
	ErrTitleTooLong   = errors.New("title must be 200 characters or fewer")
	ErrTooManyLines   = errors.New("a recipe may have at most 100 ingredients and 100 instructions")
)
