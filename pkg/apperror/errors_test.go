package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"persistence matches sentinel", NewPersistenceError("create quote", cause), ErrPersistence, true},
		{"wrapped persistence matches", fmt.Errorf("save: %w", NewPersistenceError("create quote", cause)), ErrPersistence, true},
		{"dispatch is not persistence", NewDispatchError("smtp down", cause), ErrPersistence, false},
		{"customer not found", NewCustomerNotFoundError("K-1"), ErrCustomerNotFound, true},
		{"generic not found is not customer not found", NewNotFoundError("Quote"), ErrCustomerNotFound, false},
		{"render", NewRenderError("bad layout", nil), ErrRender, true},
		{"transition", NewInvalidTransitionError("draft", "invoiced"), ErrInvalidTransition, true},
		{"validation", NewValidationError(nil), ErrValidation, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.Is(tt.err, tt.target))
		})
	}
}

func TestPersistenceErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("unique violation")
	err := NewPersistenceError("create quote", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to create quote: unique violation", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.Code)
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(fmt.Errorf("outer: %w", NewDispatchError("send failed", nil)))
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.Equal(t, KindDispatch, appErr.Kind)

	plain := GetAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, plain.Code)
	assert.Equal(t, "boom", plain.Message)
}

func TestFromValidator(t *testing.T) {
	type input struct {
		Name  string  `json:"name" validate:"required"`
		Email string  `json:"email" validate:"omitempty,email"`
		Hours float64 `json:"hours" validate:"gte=0"`
	}
	v := validator.New()
	err := v.Struct(input{Email: "nope", Hours: -1})

	appErr := FromValidator(err)
	assert.True(t, errors.Is(appErr, ErrValidation))
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Len(t, appErr.Errors, 3)
	assert.Equal(t, "This field is required", appErr.Errors[0].Message)

	other := FromValidator(errors.New("unexpected EOF"))
	assert.Equal(t, "body", other.Errors[0].Field)
}
