package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewBadRequestError("bad"), http.StatusBadRequest},
		{NewValidationError("title is required"), http.StatusBadRequest},
		{NewUnauthorizedError(""), http.StatusUnauthorized},
		{NewAppError(CodeForbidden, "no", ""), http.StatusForbidden},
		{NewRecipeNotFoundError("r1"), http.StatusNotFound},
		{NewMealNotFoundError("m1"), http.StatusNotFound},
		{NewProfileExistsError("u1"), http.StatusConflict},
		{NewQuotaExceededError("daily AI", 20), http.StatusTooManyRequests},
		{NewExternalServiceError("AI service", stderrors.New("boom")), http.StatusBadGateway},
		{NewDatabaseError("insert", stderrors.New("locked")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrapKeepsAppErrors(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	original := NewPantryItemNotFoundError("p1")
	wrapped := fmt.Errorf("loading item: %w", original)
	assert.Same(t, original, Wrap(wrapped, "internal"))

	cause := stderrors.New("disk full")
	appErr := Wrap(cause, "Failed to save")
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, cause)
}

func TestIsAndAs(t *testing.T) {
	err := fmt.Errorf("ctx: %w", NewQuotaExceededError("daily AI", 5))

	assert.True(t, Is(err, CodeQuotaExceeded))
	assert.False(t, Is(err, CodeRecipeNotFound))
	assert.False(t, Is(stderrors.New("plain"), CodeInternal))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, CodeQuotaExceeded, appErr.Code)
	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestQuotaMetadata(t *testing.T) {
	err := NewQuotaExceededError("daily AI", 20)
	assert.Equal(t, "daily AI", err.Metadata["quota_type"])
	assert.Equal(t, 20, err.Metadata["limit"])
	assert.Contains(t, err.Error(), "QUOTA_EXCEEDED")
}

func TestValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "title", Tag: "required", Message: "title is required"},
		{Field: "numPeople", Tag: "max", Message: "numPeople must be at most 12"},
	})

	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Equal(t, "title is required; numPeople must be at most 12", err.Details)
	assert.Equal(t, "validation failed", ValidationErrors(nil).Error())
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(NewProfileExistsError("u1"), "req-1")

	assert.False(t, resp.Success)
	assert.Equal(t, CodeProfileExists, resp.Error.Code)
	assert.Equal(t, "Profile already exists", resp.Error.Message)
	assert.Equal(t, "u1", resp.Error.Metadata["user_id"])
	assert.Equal(t, "req-1", resp.Error.RequestID)
	require.NotEmpty(t, resp.Error.Timestamp)
}
