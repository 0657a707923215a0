package mealplan

import "errors"

var (
	ErrMealNotFound      = errors.New("scheduled meal not found")
	ErrTitleRequired     = errors.New("meal title is required")
	ErrTitleTooLong      = errors.New("meal title must be 200 characters or fewer")
	ErrInvalidMealType   = errors.New("meal type must be breakfast, lunch or dinner")
	ErrInvalidDate       = errors.New("date must be formatted YYYY-MM-DD")
	ErrInvalidTime       = errors.New("time must be formatted HH:MM")
	ErrNotesTooLong      = errors.New("notes must be 1000 characters or fewer")
	ErrInvalidRange      = errors.New("start date must not be after end date")
	ErrInvalidPosition   = errors.New("position must not be negative")
	ErrInvalidNumMeals   = errors.New("number of meals must be between 1 and 21")
	ErrInvalidNumPeople  = errors.New("number of people must be between 1 and 12")
	ErrInvalidEffort     = errors.New("effort level must be quick, medium or elaborate")
	ErrNoSuggestions     = errors.New("the model returned no meal suggestions")
	ErrMalformedResponse = errors.New("invalid AI response format")
)
