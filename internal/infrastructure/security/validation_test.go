package security

import (
	"testing"

	"github.com/sousa/mealplan/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mealPayload struct {
	Title    string `json:"meal_title" validate:"notblank,max=200"`
	MealType string `json:"meal_type" validate:"required,oneof=breakfast lunch dinner Breakfast Lunch Dinner"`
	Date     string `json:"scheduled_date" validate:"required,isodate"`
	Time     string `json:"scheduled_time" validate:"omitempty,clock"`
}

func TestValidatorAcceptsValidPayload(t *testing.T) {
	v := NewValidator()
	err := v.Struct(mealPayload{Title: "Tacos", MealType: "dinner", Date: "2025-06-04", Time: "18:30"})
	assert.NoError(t, err)
}

func TestValidatorReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()
	err := v.Struct(mealPayload{Title: "  ", MealType: "brunch", Date: "06/04/2025", Time: "6pm"})
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidationFailed, appErr.Code)

	fields := appErr.Metadata["validation_errors"].(errors.ValidationErrors)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"meal_title", "meal_type", "scheduled_date", "scheduled_time"}, names)
	assert.Contains(t, appErr.Details, "scheduled_date must be a date in YYYY-MM-DD format")
}
